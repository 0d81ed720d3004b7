// internal/app/store/idleresources/idleresourcestore.go
package idleresourcestore

import (
	"context"
	"fmt"
	"time"

	sequencestore "github.com/dalemusser/idlehub/internal/app/store/sequences"
	"github.com/dalemusser/idlehub/internal/app/system/queryplan"
	"github.com/dalemusser/idlehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collection = "idle_resources"

// Store persists idle resources in Mongo and evaluates query plans as
// aggregation pipelines.
type Store struct {
	c   *mongo.Collection
	ids *sequencestore.Store
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(collection), ids: sequencestore.New(db)}
}

// doc is the stored shape; Rate is kept as Decimal128.
type doc struct {
	models.IdleResource `bson:",inline"`
	Rate                *primitive.Decimal128 `bson:"rate,omitempty"`
}

// row is one aggregation result.
type row struct {
	models.IdleResource `bson:",inline"`
	Rate                *primitive.Decimal128 `bson:"rate,omitempty"`
	DepartmentName      string                `bson:"department_name"`
	Relevance           int                   `bson:"relevance"`
}

func toDoc(r models.IdleResource) (doc, error) {
	d := doc{IdleResource: r}
	if r.Rate != nil {
		dec, err := primitive.ParseDecimal128(r.Rate.StringFixed(2))
		if err != nil {
			return doc{}, fmt.Errorf("encode rate: %w", err)
		}
		d.Rate = &dec
	}
	return d, nil
}

func (d doc) model() (models.IdleResource, error) {
	r := d.IdleResource
	r.Rate = nil
	if d.Rate != nil {
		dec, err := decimal.NewFromString(d.Rate.String())
		if err != nil {
			return models.IdleResource{}, fmt.Errorf("decode rate: %w", err)
		}
		r.Rate = &dec
	}
	return r, nil
}

func (r row) model() (models.ResourceRow, error) {
	res, err := doc{IdleResource: r.IdleResource, Rate: r.Rate}.model()
	if err != nil {
		return models.ResourceRow{}, err
	}
	return models.ResourceRow{IdleResource: res, DepartmentName: r.DepartmentName, Relevance: r.Relevance}, nil
}

func aggregateOpts() *options.AggregateOptions {
	return options.Aggregate().SetCollation(caseInsensitive)
}

func (s *Store) Query(ctx context.Context, p queryplan.Plan) ([]models.ResourceRow, error) {
	cur, err := s.c.Aggregate(ctx, Pipeline(p), aggregateOpts())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.ResourceRow{}
	for cur.Next(ctx) {
		var rw row
		if err := cur.Decode(&rw); err != nil {
			return nil, err
		}
		m, err := rw.model()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, cur.Err()
}

func (s *Store) Count(ctx context.Context, p queryplan.Plan) (int64, error) {
	cur, err := s.c.Aggregate(ctx, CountPipeline(p), aggregateOpts())
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)
	var res struct {
		N int64 `bson:"n"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&res); err != nil {
			return 0, err
		}
	}
	return res.N, cur.Err()
}

// CountByDepartment groups the rows p matches by department.
func (s *Store) CountByDepartment(ctx context.Context, p queryplan.Plan) ([]models.DepartmentCount, error) {
	cur, err := s.c.Aggregate(ctx, GroupPipeline(p), aggregateOpts())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.DepartmentCount{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Each streams every row of p to fn, fetching batchSize documents at a time.
func (s *Store) Each(ctx context.Context, p queryplan.Plan, batchSize int, fn func(models.ResourceRow) error) error {
	opts := aggregateOpts().SetAllowDiskUse(true)
	if batchSize > 0 {
		opts.SetBatchSize(int32(batchSize))
	}
	cur, err := s.c.Aggregate(ctx, Pipeline(p), opts)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var rw row
		if err := cur.Decode(&rw); err != nil {
			return err
		}
		m, err := rw.model()
		if err != nil {
			return err
		}
		if err := fn(m); err != nil {
			return err
		}
	}
	return cur.Err()
}

// GetByID returns the record joined with its department, or (nil, nil).
func (s *Store) GetByID(ctx context.Context, id int64) (*models.ResourceRow, error) {
	pipe := mongo.Pipeline{{{Key: "$match", Value: bson.M{"_id": id}}}}
	pipe = append(pipe, lookupStages()...)
	cur, err := s.c.Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	if !cur.Next(ctx) {
		return nil, cur.Err()
	}
	var rw row
	if err := cur.Decode(&rw); err != nil {
		return nil, err
	}
	m, err := rw.model()
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ExistsByEmployeeCode checks the unique code exactly.
func (s *Store) ExistsByEmployeeCode(ctx context.Context, code string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"employee_code": code}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create assigns the next id and timestamps, then inserts r.
func (s *Store) Create(ctx context.Context, r models.IdleResource) (models.IdleResource, error) {
	id, err := s.ids.Next(ctx, collection)
	if err != nil {
		return models.IdleResource{}, fmt.Errorf("next id: %w", err)
	}
	now := time.Now().UTC()
	r.ID = id
	r.CreatedAt = now
	r.UpdatedAt = now

	d, err := toDoc(r)
	if err != nil {
		return models.IdleResource{}, err
	}
	if _, err := s.c.InsertOne(ctx, d); err != nil {
		if wafflemongo.IsDup(err) {
			return models.IdleResource{}, models.ErrDuplicateEmployeeCode
		}
		return models.IdleResource{}, err
	}
	return r, nil
}

// Update replaces the stored document and refreshes UpdatedAt.
func (s *Store) Update(ctx context.Context, r models.IdleResource) error {
	r.UpdatedAt = time.Now().UTC()
	d, err := toDoc(r)
	if err != nil {
		return err
	}
	_, err = s.c.ReplaceOne(ctx, bson.M{"_id": r.ID}, d)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.ErrDuplicateEmployeeCode
		}
		return err
	}
	return nil
}

// Delete removes a record by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
