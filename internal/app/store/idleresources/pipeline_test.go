package idleresourcestore

import (
	"testing"
	"time"

	"github.com/dalemusser/idlehub/internal/app/system/criteria"
	"github.com/dalemusser/idlehub/internal/app/system/queryplan"
	"github.com/dalemusser/idlehub/internal/domain/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
)

func stageNames(pipe []bson.D) []string {
	out := make([]string, len(pipe))
	for i, st := range pipe {
		out[i] = st[0].Key
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPipeline_Stages(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		c    criteria.Criteria
		opts queryplan.Options
		want []string
	}{
		{
			"list",
			criteria.Default(),
			queryplan.Options{},
			[]string{"$match", "$lookup", "$addFields", "$project", "$sort", "$limit"},
		},
		{
			"search page 2",
			func() criteria.Criteria { c := criteria.Default(); c.Search = "java"; c.Page = 2; return c }(),
			queryplan.Options{},
			[]string{"$match", "$lookup", "$addFields", "$project", "$match", "$addFields", "$sort", "$skip", "$limit"},
		},
		{
			"export keeps search filter only",
			func() criteria.Criteria { c := criteria.Default(); c.Search = "java"; return c }(),
			queryplan.Options{Unbounded: true, Unranked: true},
			[]string{"$match", "$lookup", "$addFields", "$project", "$match", "$sort"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := queryplan.Compile(tt.c, now, tt.opts)
			got := stageNames(Pipeline(p))
			if !equalStrings(got, tt.want) {
				t.Errorf("stages: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterStage_Predicates(t *testing.T) {
	dep := int64(4)
	st := models.StatusIdle
	cut := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	p := queryplan.Plan{DepartmentID: &dep, Status: &st, UrgentCutoff: &cut, Skills: []string{"go", "sql"}}

	m := filterStage(p)[0].Value.(bson.M)
	and, ok := m["$and"].(bson.A)
	if !ok {
		t.Fatalf("expected $and, got %v", m)
	}
	if len(and) != 5 {
		t.Errorf("predicates: got %d, want 5", len(and))
	}
	if got := and[0].(bson.M)["department_id"]; got != int64(4) {
		t.Errorf("department_id: got %v", got)
	}
}

func TestFilterStage_Empty(t *testing.T) {
	m := filterStage(queryplan.Plan{})[0].Value.(bson.M)
	if len(m) != 0 {
		t.Errorf("expected empty match, got %v", m)
	}
}

func TestSortStage_Order(t *testing.T) {
	st := sortStage([]queryplan.SortKey{
		{Field: queryplan.SortRelevance, Desc: true},
		{Field: criteria.SortRate},
		{Field: queryplan.SortID},
	})
	sort := st[0].Value.(bson.D)
	want := []bson.E{{Key: "relevance", Value: -1}, {Key: "rate", Value: 1}, {Key: "_id", Value: 1}}
	if len(sort) != len(want) {
		t.Fatalf("sort: got %v", sort)
	}
	for i := range want {
		if sort[i] != want[i] {
			t.Errorf("sort[%d]: got %v, want %v", i, sort[i], want[i])
		}
	}
}

func TestRelevanceStage_QuotesTerm(t *testing.T) {
	st := relevanceStage("c++")
	sw := st[0].Value.(bson.M)["relevance"].(bson.M)["$switch"].(bson.M)
	branches := sw["branches"].(bson.A)
	if len(branches) != 8 {
		t.Fatalf("branches: got %d, want 8", len(branches))
	}
	partial := branches[2].(bson.M)["case"].(bson.M)["$regexMatch"].(bson.M)
	if partial["regex"] != `c\+\+` {
		t.Errorf("regex: got %v", partial["regex"])
	}
	if sw["default"] != queryplan.ScoreFloor {
		t.Errorf("default: got %v", sw["default"])
	}
}

func TestDoc_RateRoundTrip(t *testing.T) {
	rate := decimal.RequireFromString("42.50")
	d, err := toDoc(models.IdleResource{EmployeeCode: "E1", Rate: &rate})
	if err != nil {
		t.Fatalf("toDoc: %v", err)
	}
	if d.Rate == nil || d.Rate.String() != "42.50" {
		t.Errorf("Decimal128: got %v", d.Rate)
	}
	m, err := d.model()
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	if m.Rate == nil || !m.Rate.Equal(rate) {
		t.Errorf("rate: got %v, want %v", m.Rate, rate)
	}
}

func TestGroupPipeline(t *testing.T) {
	c := criteria.Default()
	c.Page = 3
	p := queryplan.Compile(c, time.Now(), queryplan.Options{}).CountOnly()

	got := stageNames(GroupPipeline(p))
	want := []string{"$match", "$lookup", "$addFields", "$project", "$group", "$sort"}
	if !equalStrings(got, want) {
		t.Errorf("stages: got %v, want %v", got, want)
	}
	group := GroupPipeline(p)[4][0].Value.(bson.M)
	if group["_id"] != "$department_id" {
		t.Errorf("group key: got %v", group["_id"])
	}
}
