package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amosWeiskopf/auditsmith/internal/models"
)

func reportWithIssues(id string, issues map[models.Severity][]models.SeoIssue) *models.SeoAuditReport {
	full := make(map[models.Severity][]models.SeoIssue, len(models.Severities))
	for _, sev := range models.Severities {
		full[sev] = issues[sev]
		if full[sev] == nil {
			full[sev] = []models.SeoIssue{}
		}
	}
	bySeverity := make(map[models.Severity]int)
	total := 0
	for _, sev := range models.Severities {
		bySeverity[sev] = len(full[sev])
		if sev != models.SeverityInfo {
			total += len(full[sev])
		}
	}
	return &models.SeoAuditReport{
		ID:     id,
		Issues: full,
		Summary: models.ReportSummary{
			TotalIssues:      total,
			IssuesBySeverity: bySeverity,
		},
		Performance: models.PerformanceReport{
			SpeedScores: map[string]int{},
			LoadTimes:   map[string]models.LoadTimeBreakdown{},
		},
	}
}

func issue(checkID string, severity models.Severity, urls ...string) models.SeoIssue {
	return models.SeoIssue{
		ID:           "issue-" + checkID,
		Type:         checkID,
		Severity:     severity,
		AffectedURLs: urls,
		Priority:     severity.Priority(),
	}
}

func TestCompareNewAndResolvedIssues(t *testing.T) {
	prior := reportWithIssues("r1", map[models.Severity][]models.SeoIssue{
		models.SeverityCritical: {issue("no_https", models.SeverityCritical, "https://example.com/")},
		models.SeverityMedium:   {issue("no_h1_tag", models.SeverityMedium, "https://example.com/")},
	})
	current := reportWithIssues("r2", map[models.Severity][]models.SeoIssue{
		models.SeverityMedium: {
			issue("no_h1_tag", models.SeverityMedium, "https://example.com/"),
			issue("no_description", models.SeverityMedium, "https://example.com/about"),
		},
	})

	cmp := Compare(current, prior)

	assert.Equal(t, "r2", cmp.CurrentID)
	assert.Equal(t, "r1", cmp.PriorID)

	require.Len(t, cmp.NewIssues, 1)
	assert.Equal(t, "no_description", cmp.NewIssues[0].Type)

	require.Len(t, cmp.ResolvedIssues, 1)
	assert.Equal(t, "no_https", cmp.ResolvedIssues[0].Type)

	assert.Equal(t, 0.0, cmp.Summary.TotalIssues.Change)
	assert.Equal(t, -1.0, cmp.Summary.IssuesBySeverity[models.SeverityCritical].Change)
	assert.Equal(t, 1.0, cmp.Summary.IssuesBySeverity[models.SeverityMedium].Change)
}

func TestCompareMatchingNeedsOverlappingURL(t *testing.T) {
	// Same check type and severity, but on disjoint pages: the prior
	// finding was resolved and a new one appeared elsewhere.
	prior := reportWithIssues("r1", map[models.Severity][]models.SeoIssue{
		models.SeverityMedium: {issue("no_h1_tag", models.SeverityMedium, "https://example.com/a")},
	})
	current := reportWithIssues("r2", map[models.Severity][]models.SeoIssue{
		models.SeverityMedium: {issue("no_h1_tag", models.SeverityMedium, "https://example.com/b")},
	})

	cmp := Compare(current, prior)

	require.Len(t, cmp.NewIssues, 1)
	require.Len(t, cmp.ResolvedIssues, 1)
	assert.Equal(t, "no_h1_tag", cmp.NewIssues[0].Type)
	assert.Equal(t, "no_h1_tag", cmp.ResolvedIssues[0].Type)
}

func TestCompareOverlapSuppressesDiff(t *testing.T) {
	// One shared URL is enough to treat the finding as the same issue,
	// even when the affected set grew.
	prior := reportWithIssues("r1", map[models.Severity][]models.SeoIssue{
		models.SeverityMedium: {issue("no_h1_tag", models.SeverityMedium, "https://example.com/a")},
	})
	current := reportWithIssues("r2", map[models.Severity][]models.SeoIssue{
		models.SeverityMedium: {issue("no_h1_tag", models.SeverityMedium, "https://example.com/a", "https://example.com/b")},
	})

	cmp := Compare(current, prior)

	assert.Empty(t, cmp.NewIssues)
	assert.Empty(t, cmp.ResolvedIssues)
}

func TestComparePagePerformanceIntersection(t *testing.T) {
	prior := reportWithIssues("r1", nil)
	prior.Performance.SpeedScores = map[string]int{
		"https://example.com/":    70,
		"https://example.com/old": 90,
	}
	prior.Performance.LoadTimes = map[string]models.LoadTimeBreakdown{
		"https://example.com/":    {InteractiveMs: 3500},
		"https://example.com/old": {InteractiveMs: 900},
	}

	current := reportWithIssues("r2", nil)
	current.Performance.SpeedScores = map[string]int{
		"https://example.com/":    90,
		"https://example.com/new": 100,
	}
	current.Performance.LoadTimes = map[string]models.LoadTimeBreakdown{
		"https://example.com/":    {InteractiveMs: 1800},
		"https://example.com/new": {InteractiveMs: 700},
	}

	cmp := Compare(current, prior)

	// Only pages present in both reports are compared.
	require.Len(t, cmp.PagePerformance, 1)
	delta := cmp.PagePerformance["https://example.com/"]
	assert.Equal(t, 20.0, delta.SpeedScore.Change)
	assert.Equal(t, -1700.0, delta.LoadTimeMs.Change)
	assert.InDelta(t, -48.57, delta.LoadTimeMs.ChangePercent, 0.01)
}
