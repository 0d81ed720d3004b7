package cvfilestore

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestCountPipeline(t *testing.T) {
	pipe := countPipeline([]int64{1, 2})
	if len(pipe) != 2 {
		t.Fatalf("stages: got %d, want 2", len(pipe))
	}
	match := pipe[0][0].Value.(bson.M)
	if match["is_active"] != true {
		t.Errorf("is_active: got %v", match["is_active"])
	}
	in := match["resource_id"].(bson.M)["$in"].([]int64)
	if len(in) != 2 || in[0] != 1 || in[1] != 2 {
		t.Errorf("$in: got %v", in)
	}
	if pipe[1][0].Key != "$group" {
		t.Errorf("second stage: got %s", pipe[1][0].Key)
	}
}

func TestActiveFilter(t *testing.T) {
	f := activeFilter(7)
	if f["resource_id"] != int64(7) || f["is_active"] != true {
		t.Errorf("filter: got %v", f)
	}
}
