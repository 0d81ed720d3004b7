// Package sqlstore is the relational backend: the same storage interfaces
// as the Mongo stores, implemented with GORM over Postgres.
package sqlstore

import (
	"context"
	"errors"
	"fmt"

	userstore "github.com/dalemusser/idlehub/internal/app/store/users"
	"github.com/dalemusser/idlehub/internal/app/system/auth"
	"github.com/dalemusser/idlehub/internal/domain/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to Postgres. Duplicate key errors are translated to
// gorm.ErrDuplicatedKey.
func Open(dsn string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	log.Info("connected to postgres")
	return db, nil
}

// Migrate creates or updates the tables.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(
		&models.Department{},
		&models.IdleResource{},
		&models.CVFile{},
		&models.User{},
	)
}

// Ping checks the connection.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Departments implements the department lookup.
type Departments struct {
	db *gorm.DB
}

func NewDepartments(db *gorm.DB) *Departments {
	return &Departments{db: db}
}

// GetByName matches the name exactly. Returns (nil, nil) if not found.
func (s *Departments) GetByName(ctx context.Context, name string) (*models.Department, error) {
	return s.first(ctx, "name = ?", name)
}

// GetByID returns (nil, nil) if not found.
func (s *Departments) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	return s.first(ctx, "id = ?", id)
}

// ListActive returns active departments ordered by name.
func (s *Departments) ListActive(ctx context.Context) ([]models.Department, error) {
	out := []models.Department{}
	err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&out).Error
	return out, err
}

func (s *Departments) first(ctx context.Context, cond string, arg interface{}) (*models.Department, error) {
	var d models.Department
	err := s.db.WithContext(ctx).Where(cond, arg).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// CVFiles counts and lists attached CVs.
type CVFiles struct {
	db *gorm.DB
}

func NewCVFiles(db *gorm.DB) *CVFiles {
	return &CVFiles{db: db}
}

func (s *CVFiles) CountActive(ctx context.Context, resourceIDs []int64) (map[int64]int, error) {
	out := make(map[int64]int, len(resourceIDs))
	if len(resourceIDs) == 0 {
		return out, nil
	}
	var counts []struct {
		ResourceID int64
		N          int
	}
	err := cvCountQuery(s.db.WithContext(ctx), resourceIDs).Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		out[c.ResourceID] = c.N
	}
	return out, nil
}

func cvCountQuery(db *gorm.DB, ids []int64) *gorm.DB {
	return db.Model(&models.CVFile{}).
		Select("resource_id, COUNT(*) AS n").
		Where("resource_id IN ? AND is_active = ?", ids, true).
		Group("resource_id")
}

// ListByResource returns the active files of a resource, newest first.
func (s *CVFiles) ListByResource(ctx context.Context, resourceID int64) ([]models.CVFile, error) {
	out := []models.CVFile{}
	if err := cvListQuery(s.db.WithContext(ctx), resourceID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func cvListQuery(db *gorm.DB, resourceID int64) *gorm.DB {
	return db.Model(&models.CVFile{}).
		Where("resource_id = ? AND is_active = ?", resourceID, true).
		Order("uploaded_at DESC, id DESC")
}

// Users implements auth.UserFetcher.
type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// FetchUser returns (nil, nil) when the user is missing or inactive.
func (s *Users) FetchUser(ctx context.Context, id int64) (*auth.SessionUser, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return userstore.SessionUser(u), nil
}
