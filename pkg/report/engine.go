// Package report aggregates vendor crawl data into normalized SEO
// audit reports and compares reports across audit runs.
package report

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/amosWeiskopf/auditsmith/internal/metrics"
	"github.com/amosWeiskopf/auditsmith/internal/models"
	"github.com/amosWeiskopf/auditsmith/pkg/dataforseo"
	"github.com/amosWeiskopf/auditsmith/pkg/task"
)

// VendorClient is the slice of the vendor API the engine needs: the
// seven result endpoints of a finished crawl.
type VendorClient interface {
	Summary(ctx context.Context, taskID string) (*dataforseo.SummaryResult, float64, error)
	Pages(ctx context.Context, taskID string) ([]dataforseo.PageItem, error)
	Resources(ctx context.Context, taskID string) ([]dataforseo.ResourceItem, error)
	Links(ctx context.Context, taskID string) ([]dataforseo.LinkItem, error)
	DuplicateTags(ctx context.Context, taskID string) ([]dataforseo.DuplicateTagItem, error)
	NonIndexable(ctx context.Context, taskID string) ([]dataforseo.NonIndexableItem, error)
	Security(ctx context.Context, taskID string) (*dataforseo.SecurityResult, error)
}

// TaskGetter looks up audit tasks by local ID.
type TaskGetter interface {
	Get(id string) (*models.AuditTask, bool, error)
}

// AggregationError reports which result fetch sank a report build.
type AggregationError struct {
	Category string
	Err      error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("report aggregation: %s fetch failed: %v", e.Category, e.Err)
}

func (e *AggregationError) Unwrap() error { return e.Err }

// fetchOrder fixes which failure wins when several fetches fail at
// once, so errors are stable run to run.
var fetchOrder = []string{
	"summary", "pages", "resources", "links",
	"duplicate_tags", "non_indexable", "security",
}

// Engine builds audit reports from vendor crawl results.
type Engine struct {
	client VendorClient
	tasks  TaskGetter
	logger zerolog.Logger

	now   func() time.Time
	newID func() string
}

// NewEngine wires an engine over a vendor client and a task lookup.
func NewEngine(client VendorClient, tasks TaskGetter, logger zerolog.Logger) *Engine {
	return &Engine{
		client: client,
		tasks:  tasks,
		logger: logger.With().Str("component", "report").Logger(),
		now:    time.Now,
		newID:  randomReportID,
	}
}

func randomReportID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return "report-" + hex.EncodeToString(b)
}

// results collects the seven fetch outputs before reduction.
type results struct {
	summary      *dataforseo.SummaryResult
	pages        []dataforseo.PageItem
	resources    []dataforseo.ResourceItem
	links        []dataforseo.LinkItem
	duplicates   []dataforseo.DuplicateTagItem
	nonIndexable []dataforseo.NonIndexableItem
	security     *dataforseo.SecurityResult
}

// GenerateReport fetches all result categories for a completed task
// and reduces them into one report. The fetches run concurrently and
// the whole build fails if any one of them fails; no partial reports
// are produced.
func (e *Engine) GenerateReport(ctx context.Context, taskID string) (*models.SeoAuditReport, error) {
	t, ok, err := e.tasks.Get(taskID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, task.ErrTaskNotFound
	}
	if t.Status != models.TaskCompleted {
		return nil, fmt.Errorf("%w: task %s is %s, report needs a completed audit",
			task.ErrInvalidTaskState, t.ID, t.Status)
	}

	res, err := e.fetchAll(ctx, t.VendorTaskID)
	if err != nil {
		var aggErr *AggregationError
		if errors.As(err, &aggErr) {
			metrics.ReportFailures.WithLabelValues(aggErr.Category).Inc()
			e.logger.Error().Err(aggErr.Err).
				Str("task_id", t.ID).
				Str("category", aggErr.Category).
				Msg("report aggregation failed")
		}
		return nil, err
	}

	report := e.reduce(t, res)
	metrics.ReportsGenerated.Inc()
	e.logger.Info().
		Str("task_id", t.ID).
		Str("report_id", report.ID).
		Int("total_issues", report.Summary.TotalIssues).
		Msg("report generated")
	return report, nil
}

// fetchAll runs the seven result fetches concurrently. The shared
// context is canceled on first failure so the remaining fetches stop
// early; when several genuinely fail, the winner is the first in
// fetchOrder.
func (e *Engine) fetchAll(ctx context.Context, vendorTaskID string) (*results, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	res := &results{}
	failures := make(map[string]error, len(fetchOrder))
	var mu sync.Mutex
	var wg sync.WaitGroup

	run := func(category string, fetch func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fetch(ctx); err != nil {
				mu.Lock()
				failures[category] = err
				mu.Unlock()
				cancel()
			}
		}()
	}

	run("summary", func(ctx context.Context) error {
		sum, _, err := e.client.Summary(ctx, vendorTaskID)
		res.summary = sum
		return err
	})
	run("pages", func(ctx context.Context) error {
		var err error
		res.pages, err = e.client.Pages(ctx, vendorTaskID)
		return err
	})
	run("resources", func(ctx context.Context) error {
		var err error
		res.resources, err = e.client.Resources(ctx, vendorTaskID)
		return err
	})
	run("links", func(ctx context.Context) error {
		var err error
		res.links, err = e.client.Links(ctx, vendorTaskID)
		return err
	})
	run("duplicate_tags", func(ctx context.Context) error {
		var err error
		res.duplicates, err = e.client.DuplicateTags(ctx, vendorTaskID)
		return err
	})
	run("non_indexable", func(ctx context.Context) error {
		var err error
		res.nonIndexable, err = e.client.NonIndexable(ctx, vendorTaskID)
		return err
	})
	run("security", func(ctx context.Context) error {
		var err error
		res.security, err = e.client.Security(ctx, vendorTaskID)
		return err
	})

	wg.Wait()
	if len(failures) == 0 {
		return res, nil
	}
	// Fetches that died of the shared cancel are victims of whichever
	// fetch genuinely failed; name that one. Only when every failure
	// is a cancellation (the caller gave up) is one of them the cause.
	for _, category := range fetchOrder {
		if err, failed := failures[category]; failed && !errors.Is(err, context.Canceled) {
			return nil, &AggregationError{Category: category, Err: err}
		}
	}
	for _, category := range fetchOrder {
		if err, failed := failures[category]; failed {
			return nil, &AggregationError{Category: category, Err: err}
		}
	}
	return res, nil
}

// reduce runs all reductions over the fetched results and assembles
// the report.
func (e *Engine) reduce(t *models.AuditTask, res *results) *models.SeoAuditReport {
	issues := buildIssues(res.pages, res.resources, res.duplicates, res.nonIndexable)
	return &models.SeoAuditReport{
		ID:          e.newID(),
		TaskID:      t.ID,
		Target:      t.Target,
		OwnerID:     t.OwnerID,
		GeneratedAt: e.now().UTC(),
		Website:     buildWebsiteInfo(res.summary),
		Summary:     buildSummary(res.summary, res.pages, res.resources, res.links, issues),
		Issues:      issues,
		Performance: buildPerformance(res.pages),
		Content:     buildContent(res.pages, res.duplicates),
		Security:    buildSecurity(res.security),
		Pages:       mapPages(res.pages),
		Resources:   mapResources(res.resources),
		Links:       mapLinks(res.links),
	}
}
