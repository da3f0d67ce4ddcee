package report

import (
	"sort"
	"time"

	"github.com/amosWeiskopf/auditsmith/internal/models"
)

// Compare diffs a report against an earlier one for the same target:
// headline score deltas, issues that appeared or went away, and
// per-page performance movement. Neither input is mutated.
func Compare(current, prior *models.SeoAuditReport) *models.ReportComparison {
	cmp := &models.ReportComparison{
		CurrentID:  current.ID,
		PriorID:    prior.ID,
		ComparedAt: time.Now().UTC(),
		Summary: models.ComparisonSummary{
			OnPageScore:      models.NewDelta(current.Summary.OnPageScore, prior.Summary.OnPageScore),
			TotalIssues:      models.NewDelta(float64(current.Summary.TotalIssues), float64(prior.Summary.TotalIssues)),
			IssuesBySeverity: make(map[models.Severity]models.Delta, len(models.Severities)),
			AveragePageSpeed: models.NewDelta(current.Summary.PageSpeed.AverageMs, prior.Summary.PageSpeed.AverageMs),
		},
		NewIssues:       []models.SeoIssue{},
		ResolvedIssues:  []models.SeoIssue{},
		PagePerformance: make(map[string]models.PagePerformanceDelta),
	}

	for _, severity := range models.Severities {
		cmp.Summary.IssuesBySeverity[severity] = models.NewDelta(
			float64(current.Summary.IssuesBySeverity[severity]),
			float64(prior.Summary.IssuesBySeverity[severity]),
		)
	}

	cmp.NewIssues = unmatchedIssues(current.Issues, prior.Issues)
	cmp.ResolvedIssues = unmatchedIssues(prior.Issues, current.Issues)

	for url, score := range current.Performance.SpeedScores {
		priorScore, seen := prior.Performance.SpeedScores[url]
		if !seen {
			continue
		}
		cmp.PagePerformance[url] = models.PagePerformanceDelta{
			SpeedScore: models.NewDelta(float64(score), float64(priorScore)),
			LoadTimeMs: models.NewDelta(
				current.Performance.LoadTimes[url].InteractiveMs,
				prior.Performance.LoadTimes[url].InteractiveMs,
			),
		}
	}

	return cmp
}

// unmatchedIssues returns the issues from left with no counterpart in
// right. Two issues match when they share type, severity and at least
// one affected URL.
func unmatchedIssues(left, right map[models.Severity][]models.SeoIssue) []models.SeoIssue {
	out := []models.SeoIssue{}
	for _, severity := range models.Severities {
		for _, issue := range left[severity] {
			if !hasMatch(issue, right[severity]) {
				out = append(out, issue)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].Type < out[j].Type
	})
	return out
}

func hasMatch(issue models.SeoIssue, candidates []models.SeoIssue) bool {
	for _, cand := range candidates {
		if cand.Type != issue.Type {
			continue
		}
		if urlsOverlap(issue.AffectedURLs, cand.AffectedURLs) {
			return true
		}
	}
	return false
}

func urlsOverlap(a, b []string) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(a))
	for _, url := range a {
		set[url] = struct{}{}
	}
	for _, url := range b {
		if _, ok := set[url]; ok {
			return true
		}
	}
	return false
}
