// internal/app/store/departments/departmentstore.go
package departmentstore

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
	return &Store{c: db.Collection("departments")}
}

// GetByName matches the name exactly. Returns (nil, nil) if not found.
func (s *Store) GetByName(ctx context.Context, name string) (*models.Department, error) {
	return s.findOne(ctx, bson.M{"name": name})
}

// GetByID returns (nil, nil) if not found.
func (s *Store) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// ListActive returns active departments ordered by name.
func (s *Store) ListActive(ctx context.Context) ([]models.Department, error) {
	cur, err := s.c.Find(ctx, bson.M{"is_active": true}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Department{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*models.Department, error) {
	var d models.Department
	err := s.c.FindOne(ctx, filter).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}
