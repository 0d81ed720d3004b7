// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/idlehub/internal/app/resourceengine"
	cvfilestore "github.com/dalemusser/idlehub/internal/app/store/cvfiles"
	departmentstore "github.com/dalemusser/idlehub/internal/app/store/departments"
	idleresourcestore "github.com/dalemusser/idlehub/internal/app/store/idleresources"
	"github.com/dalemusser/idlehub/internal/app/store/sqlstore"
	userstore "github.com/dalemusser/idlehub/internal/app/store/users"
	"github.com/dalemusser/idlehub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// DBDeps holds database/back-end dependencies for the app. Exactly one
// backend is populated, named by Backend.
type DBDeps struct {
	Backend string

	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	SQL *gorm.DB
}

// Stores are the storage implementations handlers are built on.
type Stores struct {
	Resources   resourceengine.ResourceStore
	Departments resourceengine.DepartmentLookup
	CVFiles     resourceengine.CVFileStore
	Users       auth.UserFetcher
}

// Stores returns the implementations for the configured backend.
func (d DBDeps) Stores() Stores {
	if d.Backend == BackendPostgres {
		return Stores{
			Resources:   sqlstore.NewResources(d.SQL),
			Departments: sqlstore.NewDepartments(d.SQL),
			CVFiles:     sqlstore.NewCVFiles(d.SQL),
			Users:       sqlstore.NewUsers(d.SQL),
		}
	}
	return Stores{
		Resources:   idleresourcestore.New(d.MongoDatabase),
		Departments: departmentstore.New(d.MongoDatabase),
		CVFiles:     cvfilestore.New(d.MongoDatabase),
		Users:       userstore.NewFetcher(d.MongoDatabase),
	}
}

// Ping checks the active backend.
func (d DBDeps) Ping(ctx context.Context) error {
	switch {
	case d.SQL != nil:
		return sqlstore.Ping(ctx, d.SQL)
	case d.MongoClient != nil:
		return d.MongoClient.Ping(ctx, nil)
	}
	return errors.New("no database connected")
}
