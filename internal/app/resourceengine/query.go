package resourceengine

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/idlehub/internal/app/policy/resourcescope"
	"github.com/dalemusser/idlehub/internal/app/system/authz"
	"github.com/dalemusser/idlehub/internal/app/system/criteria"
	"github.com/dalemusser/idlehub/internal/app/system/metrics"
	"github.com/dalemusser/idlehub/internal/app/system/paging"
	"github.com/dalemusser/idlehub/internal/app/system/projection"
	"github.com/dalemusser/idlehub/internal/app/system/queryplan"
	"github.com/dalemusser/idlehub/internal/domain/models"
)

// Page is one page of projected records plus its envelope.
type Page struct {
	Data []projection.Record `json:"data"`
	paging.Meta
}

// Query lists idle resources visible to caller. A non-empty search term
// switches to relevance-ranked search mode automatically.
func (e *Engine) Query(ctx context.Context, params url.Values, caller authz.Caller) (Page, error) {
	c, err := criteria.Parse(params)
	if err != nil {
		return Page{}, err
	}
	c = resourcescope.Scope(c, caller)

	now := e.now()
	p := queryplan.Compile(c, now, queryplan.Options{ThresholdMonths: e.cfg.ThresholdMonths})

	mode := "list"
	if p.Ranked {
		mode = "search"
	}
	start := time.Now()
	defer func() { metrics.QueryDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds()) }()

	rows, err := e.resources.Query(ctx, p)
	if err != nil {
		return Page{}, fmt.Errorf("query idle resources: %w", err)
	}
	total, err := e.resources.Count(ctx, p.CountOnly())
	if err != nil {
		return Page{}, fmt.Errorf("count idle resources: %w", err)
	}
	counts, err := e.cvCounts(ctx, rows)
	if err != nil {
		return Page{}, err
	}

	opts := projection.Options{ThresholdMonths: e.cfg.ThresholdMonths, CVCounts: counts}
	if p.Ranked {
		opts.Search = p.Search
	}
	return Page{
		Data: projection.Project(rows, now, opts),
		Meta: paging.NewMeta(total, c.Page, c.PageSize),
	}, nil
}

// Search is Query under the name of the search endpoint.
func (e *Engine) Search(ctx context.Context, params url.Values, caller authz.Caller) (Page, error) {
	return e.Query(ctx, params, caller)
}

func (e *Engine) cvCounts(ctx context.Context, rows []models.ResourceRow) (map[int64]int, error) {
	if e.cvFiles == nil || len(rows) == 0 {
		return nil, nil
	}
	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	counts, err := e.cvFiles.CountActive(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count cv files: %w", err)
	}
	return counts, nil
}
