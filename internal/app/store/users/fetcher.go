package userstore

import (
	"context"

	"github.com/dalemusser/idlehub/internal/app/system/auth"
	"github.com/dalemusser/idlehub/internal/app/system/authz"
	"github.com/dalemusser/idlehub/internal/app/system/timeouts"
	"github.com/dalemusser/idlehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each request.
type Fetcher struct {
	users *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{users: db.Collection("users")}
}

// FetchUser returns (nil, nil) when the user is missing or inactive.
func (f *Fetcher) FetchUser(ctx context.Context, id int64) (*auth.SessionUser, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{
		"_id":           1,
		"full_name":     1,
		"email":         1,
		"role":          1,
		"department_id": 1,
		"is_active":     1,
	})
	err := f.users.FindOne(ctx, bson.M{"_id": id}, proj).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return SessionUser(u), nil
}

// SessionUser converts a stored user. Inactive users and unknown roles map
// to nil so they are treated as signed out.
func SessionUser(u models.User) *auth.SessionUser {
	if !u.IsActive {
		return nil
	}
	role, ok := authz.ParseRole(u.Role)
	if !ok {
		return nil
	}
	return &auth.SessionUser{
		ID:           u.ID,
		Name:         u.FullName,
		Email:        u.Email,
		Role:         string(role),
		DepartmentID: u.DepartmentID,
	}
}
