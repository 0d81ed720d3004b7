// internal/app/store/cvfiles/cvfilestore.go
package cvfilestore

import (
	"context"

	"github.com/dalemusser/idlehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("cv_files")}
}

// CountActive returns the number of active CV files per resource id.
// Resources without files are absent from the map.
func (s *Store) CountActive(ctx context.Context, resourceIDs []int64) (map[int64]int, error) {
	out := make(map[int64]int, len(resourceIDs))
	if len(resourceIDs) == 0 {
		return out, nil
	}
	cur, err := s.c.Aggregate(ctx, countPipeline(resourceIDs))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var res struct {
			ID int64 `bson:"_id"`
			N  int   `bson:"n"`
		}
		if err := cur.Decode(&res); err != nil {
			return nil, err
		}
		out[res.ID] = res.N
	}
	return out, cur.Err()
}

func countPipeline(ids []int64) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"resource_id": bson.M{"$in": ids}, "is_active": true}}},
		{{Key: "$group", Value: bson.M{"_id": "$resource_id", "n": bson.M{"$sum": 1}}}},
	}
}

// activeFilter matches the active files of one resource.
func activeFilter(resourceID int64) bson.M {
	return bson.M{"resource_id": resourceID, "is_active": true}
}

// ListByResource returns the active files of a resource, newest first.
func (s *Store) ListByResource(ctx context.Context, resourceID int64) ([]models.CVFile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "uploaded_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, activeFilter(resourceID), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.CVFile{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
