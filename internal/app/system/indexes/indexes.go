// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each index set is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	var problems []string
	for _, set := range Specs() {
		if err := ensureIndexSet(ctx, db.Collection(set.Collection), set.Models, log); err != nil {
			problems = append(problems, set.Collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// Set is the desired indexes of one collection.
type Set struct {
	Collection string
	Models     []mongo.IndexModel
}

// Specs lists every index the application relies on.
func Specs() []Set {
	return []Set{
		{"idle_resources", []mongo.IndexModel{
			named(bson.D{{Key: "employee_code", Value: 1}}, "uniq_idle_resources_employee_code", true),
			named(bson.D{{Key: "department_id", Value: 1}, {Key: "updated_at", Value: -1}}, "idx_idle_resources_department_updated", false),
			named(bson.D{{Key: "status", Value: 1}}, "idx_idle_resources_status", false),
			named(bson.D{{Key: "idle_from", Value: 1}}, "idx_idle_resources_idle_from", false),
			named(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}}, "idx_idle_resources_updated_id", false),
		}},
		{"departments", []mongo.IndexModel{
			named(bson.D{{Key: "name", Value: 1}}, "uniq_departments_name", true),
			named(bson.D{{Key: "code", Value: 1}}, "uniq_departments_code", true),
			named(bson.D{{Key: "is_active", Value: 1}, {Key: "name", Value: 1}}, "idx_departments_active_name", false),
		}},
		{"cv_files", []mongo.IndexModel{
			named(bson.D{{Key: "resource_id", Value: 1}, {Key: "is_active", Value: 1}}, "idx_cv_files_resource_active", false),
		}},
		{"users", []mongo.IndexModel{
			named(bson.D{{Key: "email", Value: 1}}, "uniq_users_email", true),
		}},
	}
}

func named(keys bson.D, name string, unique bool) mongo.IndexModel {
	opts := options.Index().SetName(name)
	if unique {
		opts.SetUnique(true)
	}
	return mongo.IndexModel{Keys: keys, Options: opts}
}

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isTrue(b *bool) bool {
	return b != nil && *b
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			return nil, err
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

// ensureIndexSet creates missing indexes. An index with the same keys is
// reused when its uniqueness matches; a mismatch is reported rather than
// dropped, since dropping a unique index loses a constraint.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel, log *zap.Logger) error {
	existing, err := listExisting(ctx, coll)
	if err != nil {
		return fmt.Errorf("list indexes: %w", err)
	}

	var errs []string
	for _, m := range models {
		name := *m.Options.Name
		unique := isTrue(m.Options.Unique)
		sig := keySig(m.Keys.(bson.D))

		if ex, ok := existing[sig]; ok {
			if isTrue(ex.Unique) != unique {
				errs = append(errs, fmt.Sprintf("%s: existing index %s on (%s) has unique=%v", name, ex.Name, sig, isTrue(ex.Unique)))
				continue
			}
			log.Debug("reusing existing index",
				zap.String("collection", coll.Name()),
				zap.String("name", ex.Name),
				zap.String("keys", sig))
			continue
		}

		start := time.Now()
		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isOptionsConflictErr(err) {
				log.Warn("index options conflict",
					zap.String("collection", coll.Name()),
					zap.String("name", name),
					zap.Error(err))
			}
			errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		log.Info("index created",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", unique),
			zap.Duration("took", time.Since(start)))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
