package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amosWeiskopf/auditsmith/internal/models"
	"github.com/amosWeiskopf/auditsmith/pkg/dataforseo"
	"github.com/amosWeiskopf/auditsmith/pkg/task"
)

type fakeClient struct {
	summary      *dataforseo.SummaryResult
	pages        []dataforseo.PageItem
	resources    []dataforseo.ResourceItem
	links        []dataforseo.LinkItem
	duplicates   []dataforseo.DuplicateTagItem
	nonIndexable []dataforseo.NonIndexableItem
	security     *dataforseo.SecurityResult

	failCategory  string
	failErr       error
	failDelay     time.Duration
	blockCategory string // waits for ctx cancellation, then fails with ctx.Err()
}

func (f *fakeClient) fail(ctx context.Context, category string) error {
	if f.blockCategory == category {
		<-ctx.Done()
		return ctx.Err()
	}
	if f.failCategory == category {
		if f.failDelay > 0 {
			time.Sleep(f.failDelay)
		}
		return f.failErr
	}
	return nil
}

func (f *fakeClient) Summary(ctx context.Context, id string) (*dataforseo.SummaryResult, float64, error) {
	return f.summary, 0, f.fail(ctx, "summary")
}

func (f *fakeClient) Pages(ctx context.Context, id string) ([]dataforseo.PageItem, error) {
	return f.pages, f.fail(ctx, "pages")
}

func (f *fakeClient) Resources(ctx context.Context, id string) ([]dataforseo.ResourceItem, error) {
	return f.resources, f.fail(ctx, "resources")
}

func (f *fakeClient) Links(ctx context.Context, id string) ([]dataforseo.LinkItem, error) {
	return f.links, f.fail(ctx, "links")
}

func (f *fakeClient) DuplicateTags(ctx context.Context, id string) ([]dataforseo.DuplicateTagItem, error) {
	return f.duplicates, f.fail(ctx, "duplicate_tags")
}

func (f *fakeClient) NonIndexable(ctx context.Context, id string) ([]dataforseo.NonIndexableItem, error) {
	return f.nonIndexable, f.fail(ctx, "non_indexable")
}

func (f *fakeClient) Security(ctx context.Context, id string) (*dataforseo.SecurityResult, error) {
	return f.security, f.fail(ctx, "security")
}

type fakeTasks map[string]*models.AuditTask

func (f fakeTasks) Get(id string) (*models.AuditTask, bool, error) {
	t, ok := f[id]
	return t, ok, nil
}

func completedTask() *models.AuditTask {
	return &models.AuditTask{
		ID:           "task-1",
		VendorTaskID: "vendor-1",
		Target:       "https://example.com",
		Status:       models.TaskCompleted,
		Progress:     100,
		OwnerID:      "owner-1",
	}
}

func crawlFixture() *fakeClient {
	return &fakeClient{
		summary: &dataforseo.SummaryResult{
			CrawlProgress: 100,
			PagesCrawled:  2,
			OnPageScore:   87.5,
			Domain: dataforseo.DomainInfo{
				Name:       "example.com",
				CMS:        "WordPress",
				Server:     "nginx",
				IP:         "203.0.113.7",
				TotalPages: 2,
				CrawlStart: "2026-08-01T10:00:00Z",
				CrawlEnd:   "2026-08-01T10:12:00Z",
			},
		},
		pages: []dataforseo.PageItem{
			{
				URL:           "https://example.com/",
				StatusCode:    200,
				OnPageScore:   90,
				ContentLength: 3000,
				Meta: dataforseo.PageMeta{
					Title:           "Example",
					Description:     "An example page",
					Charset:         "utf-8",
					SocialMediaTags: map[string]string{"og:title": "Example"},
				},
				Timing: dataforseo.PageTiming{TimeToInteractive: 1500},
				Checks: map[string]bool{"no_h1_tag": true, "no_https": false},
				KeywordDensity: map[string]float64{
					"example": 2.5,
					"audit":   1.1,
				},
			},
			{
				URL:           "https://example.com/about",
				StatusCode:    200,
				OnPageScore:   85,
				ContentLength: 1200,
				Meta:          dataforseo.PageMeta{Title: "About"},
				Timing:        dataforseo.PageTiming{TimeToInteractive: 4500},
				Checks:        map[string]bool{"no_description": true, "no_h1_tag": true},
				KeywordDensity: map[string]float64{
					"example": 3.0,
				},
			},
		},
		resources: []dataforseo.ResourceItem{
			{URL: "https://example.com/app.js", ResourceType: "script", StatusCode: 200, Size: 1000, FetchTime: 120},
			{URL: "https://example.com/gone.css", ResourceType: "stylesheet", StatusCode: 404, Size: 0, FetchTime: 40},
		},
		links: []dataforseo.LinkItem{
			{From: "https://example.com/", To: "https://example.com/about", Type: "internal"},
			{From: "https://example.com/", To: "https://other.example", Type: "external", Attributes: []string{"nofollow"}},
		},
		duplicates: []dataforseo.DuplicateTagItem{
			{TagType: "title", Pages: []string{"https://example.com/", "https://example.com/about"}},
		},
		nonIndexable: []dataforseo.NonIndexableItem{
			{URL: "https://example.com/private", Reason: "robots_txt"},
		},
		security: &dataforseo.SecurityResult{
			SSL: dataforseo.SSLCertificate{
				Valid:      true,
				Issuer:     "Let's Encrypt",
				Expiration: "2026-11-01T00:00:00Z",
				Protocol:   "TLSv1.3",
			},
			SecurityHeaders: map[string]bool{"strict-transport-security": true},
		},
	}
}

func newTestEngine(client VendorClient, tasks TaskGetter) *Engine {
	e := NewEngine(client, tasks, zerolog.Nop())
	e.now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }
	e.newID = func() string { return "report-fixed" }
	return e
}

func TestGenerateReportAggregatesAllCategories(t *testing.T) {
	engine := newTestEngine(crawlFixture(), fakeTasks{"task-1": completedTask()})

	report, err := engine.GenerateReport(context.Background(), "task-1")
	require.NoError(t, err)

	assert.Equal(t, "report-fixed", report.ID)
	assert.Equal(t, "task-1", report.TaskID)
	assert.Equal(t, "https://example.com", report.Target)
	assert.Equal(t, "owner-1", report.OwnerID)

	assert.Equal(t, "example.com", report.Website.Domain)
	assert.Equal(t, 2, report.Website.CrawledPages)
	assert.Equal(t, 87.5, report.Summary.OnPageScore)

	// no_h1_tag aggregates both pages into one issue.
	var h1 *models.SeoIssue
	for i := range report.Issues[models.SeverityMedium] {
		if report.Issues[models.SeverityMedium][i].Type == "no_h1_tag" {
			h1 = &report.Issues[models.SeverityMedium][i]
		}
	}
	require.NotNil(t, h1)
	assert.Equal(t, []string{"https://example.com/", "https://example.com/about"}, h1.AffectedURLs)

	// Broken stylesheet becomes the synthetic high-severity issue,
	// alongside the duplicate title issue.
	highTypes := []string{}
	for _, issue := range report.Issues[models.SeverityHigh] {
		highTypes = append(highTypes, issue.Type)
	}
	assert.Equal(t, []string{"broken_resources", "duplicate_title"}, highTypes)

	assert.Len(t, report.Pages, 2)
	assert.Len(t, report.Resources, 2)
	assert.Len(t, report.Links["https://example.com/"], 2)
	assert.True(t, report.Security.SSL.Valid)
	assert.True(t, report.Security.Headers["strict-transport-security"])
	assert.False(t, report.Security.Headers["content-security-policy"])
}

func TestGenerateReportIsDeterministic(t *testing.T) {
	engine := newTestEngine(crawlFixture(), fakeTasks{"task-1": completedTask()})

	first, err := engine.GenerateReport(context.Background(), "task-1")
	require.NoError(t, err)
	second, err := engine.GenerateReport(context.Background(), "task-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateReportSeverityCountsMatchBuckets(t *testing.T) {
	engine := newTestEngine(crawlFixture(), fakeTasks{"task-1": completedTask()})

	report, err := engine.GenerateReport(context.Background(), "task-1")
	require.NoError(t, err)

	total := 0
	for _, sev := range models.Severities {
		assert.Equal(t, len(report.Issues[sev]), report.Summary.IssuesBySeverity[sev],
			"severity %s count must match its bucket", sev)
		if sev != models.SeverityInfo {
			total += len(report.Issues[sev])
		}
	}
	assert.Equal(t, total, report.Summary.TotalIssues)
}

func TestGenerateReportFailsWhenAnyFetchFails(t *testing.T) {
	client := crawlFixture()
	client.failCategory = "links"
	client.failErr = errors.New("boom")
	engine := newTestEngine(client, fakeTasks{"task-1": completedTask()})

	report, err := engine.GenerateReport(context.Background(), "task-1")
	assert.Nil(t, report, "no partial report on a failed fetch")

	var aggErr *AggregationError
	require.ErrorAs(t, err, &aggErr)
	assert.Equal(t, "links", aggErr.Category)
	assert.ErrorIs(t, err, client.failErr)
}

func TestGenerateReportNamesTheFetchThatFailed(t *testing.T) {
	// Summary sits earlier in the reporting order and dies of the
	// shared cancel once links fails; the error must still name links.
	client := crawlFixture()
	client.failCategory = "links"
	client.failErr = errors.New("boom")
	client.failDelay = 20 * time.Millisecond
	client.blockCategory = "summary"
	engine := newTestEngine(client, fakeTasks{"task-1": completedTask()})

	_, err := engine.GenerateReport(context.Background(), "task-1")

	var aggErr *AggregationError
	require.ErrorAs(t, err, &aggErr)
	assert.Equal(t, "links", aggErr.Category)
	assert.ErrorIs(t, err, client.failErr)
}

func TestGenerateReportCallerCancellation(t *testing.T) {
	// When the caller gives up, every failure is a cancellation and
	// the error reflects that instead of blaming an innocent fetch.
	client := crawlFixture()
	client.blockCategory = "pages"
	engine := newTestEngine(client, fakeTasks{"task-1": completedTask()})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := engine.GenerateReport(ctx, "task-1")

	var aggErr *AggregationError
	require.ErrorAs(t, err, &aggErr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateReportUnknownTask(t *testing.T) {
	engine := newTestEngine(crawlFixture(), fakeTasks{})

	_, err := engine.GenerateReport(context.Background(), "nope")
	assert.ErrorIs(t, err, task.ErrTaskNotFound)
}

func TestGenerateReportRequiresCompletedTask(t *testing.T) {
	running := completedTask()
	running.Status = models.TaskInProgress
	engine := newTestEngine(crawlFixture(), fakeTasks{"task-1": running})

	_, err := engine.GenerateReport(context.Background(), "task-1")
	assert.ErrorIs(t, err, task.ErrInvalidTaskState)
}

func TestContentReduction(t *testing.T) {
	engine := newTestEngine(crawlFixture(), fakeTasks{"task-1": completedTask()})

	report, err := engine.GenerateReport(context.Background(), "task-1")
	require.NoError(t, err)

	content := report.Content
	assert.Equal(t, 500, content.WordCounts["https://example.com/"])
	assert.Equal(t, 200, content.WordCounts["https://example.com/about"])
	assert.Equal(t, 350.0, content.AverageWordCount)
	assert.Equal(t, 87.5, content.QualityScore)

	// The about page is missing description, charset and og:title.
	require.Len(t, content.MissingMetadata, 1)
	assert.Equal(t, "https://example.com/about", content.MissingMetadata[0].URL)
	assert.Equal(t, []string{"description", "charset", "og:title"}, content.MissingMetadata[0].Missing)

	// Keyword densities keep the per-keyword maximum across pages.
	require.Len(t, content.TopKeywords, 2)
	assert.Equal(t, models.KeywordDensity{Keyword: "example", Density: 3.0}, content.TopKeywords[0])
	assert.Equal(t, models.KeywordDensity{Keyword: "audit", Density: 1.1}, content.TopKeywords[1])
}

func TestSummarySpeedDistribution(t *testing.T) {
	engine := newTestEngine(crawlFixture(), fakeTasks{"task-1": completedTask()})

	report, err := engine.GenerateReport(context.Background(), "task-1")
	require.NoError(t, err)

	speed := report.Summary.PageSpeed
	assert.Equal(t, 1500.0, speed.MinMs)
	assert.Equal(t, 4500.0, speed.MaxMs)
	assert.Equal(t, 3000.0, speed.AverageMs)
	assert.Equal(t, 1, speed.Distribution.Fast)
	assert.Equal(t, 0, speed.Distribution.Moderate)
	assert.Equal(t, 1, speed.Distribution.Slow)
}
