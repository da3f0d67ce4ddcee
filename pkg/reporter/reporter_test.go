package reporter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amosWeiskopf/auditsmith/internal/models"
)

func sampleReport() *models.SeoAuditReport {
	issues := map[models.Severity][]models.SeoIssue{}
	for _, sev := range models.Severities {
		issues[sev] = []models.SeoIssue{}
	}
	issues[models.SeverityHigh] = []models.SeoIssue{{
		ID:           "issue-no_title",
		Type:         "no_title",
		Category:     models.CategoryContent,
		Severity:     models.SeverityHigh,
		Title:        "Missing title tags",
		Description:  "Pages have no <title> element.",
		Impact:       "Search engines synthesize titles for these pages.",
		AffectedURLs: []string{"https://example.com/about"},
		Priority:     models.SeverityHigh.Priority(),
		Effort:       models.EffortLow,
	}}

	return &models.SeoAuditReport{
		ID:          "report-1",
		TaskID:      "task-1",
		Target:      "https://example.com",
		GeneratedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Website: models.WebsiteInfo{
			Domain:       "example.com",
			CrawledPages: 3,
		},
		Summary: models.ReportSummary{
			OnPageScore: 88.5,
			TotalIssues: 1,
			IssuesBySeverity: map[models.Severity]int{
				models.SeverityHigh: 1,
			},
			PageSpeed: models.PageSpeedStats{AverageMs: 2100},
		},
		Issues: issues,
		Performance: models.PerformanceReport{
			MobileScore: 83,
		},
		Pages: map[string]models.PageMetrics{
			"https://example.com/": {
				URL:        "https://example.com/",
				StatusCode: 200,
				Title:      "Example",
				WordCount:  500,
			},
			"https://example.com/about": {
				URL:        "https://example.com/about",
				StatusCode: 200,
			},
		},
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := New().Render(sampleReport(), FormatJSON)
	require.NoError(t, err)

	var decoded models.SeoAuditReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "report-1", decoded.ID)
	assert.Equal(t, 88.5, decoded.Summary.OnPageScore)
}

func TestRenderHTML(t *testing.T) {
	data, err := New().Render(sampleReport(), FormatHTML)
	require.NoError(t, err)

	html := string(data)
	assert.Contains(t, html, "SEO Audit for example.com")
	assert.Contains(t, html, "Missing title tags")
	assert.Contains(t, html, "88.5")
}

func TestRenderMarkdown(t *testing.T) {
	data, err := New().Render(sampleReport(), FormatMarkdown)
	require.NoError(t, err)

	md := string(data)
	assert.Contains(t, md, "# SEO Audit for example.com")
	assert.Contains(t, md, "| On-page score | 88.5 |")
	assert.Contains(t, md, "### Missing title tags")
}

func TestRenderPDF(t *testing.T) {
	data, err := New().Render(sampleReport(), FormatPDF)
	require.NoError(t, err)
	assert.True(t, len(data) > 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderXLSX(t *testing.T) {
	data, err := New().Render(sampleReport(), FormatXLSX)
	require.NoError(t, err)
	// xlsx files are zip archives.
	require.True(t, len(data) > 2)
	assert.Equal(t, "PK", string(data[:2]))
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := New().Render(sampleReport(), Format("docx"))
	assert.Error(t, err)
}
