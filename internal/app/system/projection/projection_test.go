package projection

import (
	"testing"
	"time"

	"github.com/dalemusser/idlehub/internal/domain/models"
)

var now = time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)

func TestHighlight(t *testing.T) {
	tests := []struct {
		name, text, term, want string
		matched                bool
	}{
		{"preserves case", "Senior Java Dev", "java", "Senior <mark>Java</mark> Dev", true},
		{"every occurrence", "go, Go, GO", "go", "<mark>go</mark>, <mark>Go</mark>, <mark>GO</mark>", true},
		{"escapes surroundings", "<b>R&D</b> lead", "lead", "&lt;b&gt;R&amp;D&lt;/b&gt; <mark>lead</mark>", true},
		{"escapes the match", "A&B team", "a&b", "<mark>A&amp;B</mark> team", true},
		{"regex metachars literal", "C++ (legacy)", "c++", "<mark>C++</mark> (legacy)", true},
		{"no match", "Python", "rust", "Python", false},
		{"empty term", "x<y", "", "x&lt;y", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Highlight(tt.text, tt.term)
			if got != tt.want || ok != tt.matched {
				t.Errorf("Highlight(%q, %q): got (%q, %v), want (%q, %v)", tt.text, tt.term, got, ok, tt.want, tt.matched)
			}
		})
	}
}

func sampleRow() models.ResourceRow {
	to := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	return models.ResourceRow{
		IdleResource: models.IdleResource{
			ID:           7,
			EmployeeCode: "EMP007",
			FullName:     "Minh Tran",
			DepartmentID: 2,
			Position:     "QA Engineer",
			SkillSet:     "Selenium, Java",
			IdleFrom:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			IdleTo:       &to,
			Status:       models.StatusIdle,
		},
		DepartmentName: "Quality",
		Relevance:      60,
	}
}

func TestProject_ListMode(t *testing.T) {
	recs := Project([]models.ResourceRow{sampleRow()}, now, Options{ThresholdMonths: 2, CVCounts: map[int64]int{7: 3}})
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	r := recs[0]
	if !r.IsUrgent {
		t.Error("expected urgent (idle since March, now June)")
	}
	if r.CVFilesCount != 3 {
		t.Errorf("CVFilesCount: got %d, want 3", r.CVFilesCount)
	}
	if r.SearchRelevance != nil || r.SearchHighlight != nil {
		t.Error("list mode must not carry search fields")
	}
	if r.IdleFrom != "2024-03-01" || r.IdleTo == nil || *r.IdleTo != "2024-09-01" {
		t.Errorf("dates: got %q / %v", r.IdleFrom, r.IdleTo)
	}
	if r.DepartmentName != "Quality" {
		t.Errorf("DepartmentName: got %q", r.DepartmentName)
	}
}

func TestProject_SearchMode(t *testing.T) {
	recs := Project([]models.ResourceRow{sampleRow()}, now, Options{Search: "qa", ThresholdMonths: 2})
	r := recs[0]

	if r.CVFilesCount != 0 {
		t.Errorf("CVFilesCount without counts: got %d, want 0", r.CVFilesCount)
	}
	if r.SearchRelevance == nil || *r.SearchRelevance != 60 {
		t.Errorf("SearchRelevance: got %v, want 60", r.SearchRelevance)
	}
	if got := r.SearchHighlight["position"]; got != "<mark>QA</mark> Engineer" {
		t.Errorf("position highlight: got %q", got)
	}
	if _, ok := r.SearchHighlight["fullName"]; ok {
		t.Error("unmatched field must not be highlighted")
	}
}
