package models

import "time"

// Delta is a scalar change between two reports. ChangePercent is zero
// when the previous value is zero.
type Delta struct {
	Current       float64 `json:"current"`
	Previous      float64 `json:"previous"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

// NewDelta builds a Delta from two scalar observations.
func NewDelta(current, previous float64) Delta {
	d := Delta{
		Current:  current,
		Previous: previous,
		Change:   current - previous,
	}
	if previous != 0 {
		d.ChangePercent = d.Change / previous * 100
	}
	return d
}

// PagePerformanceDelta tracks how one URL's speed changed over time.
type PagePerformanceDelta struct {
	SpeedScore Delta `json:"speed_score"`
	LoadTimeMs Delta `json:"load_time_ms"`
}

// ComparisonSummary carries the headline deltas between two reports.
type ComparisonSummary struct {
	OnPageScore      Delta              `json:"on_page_score"`
	TotalIssues      Delta              `json:"total_issues"`
	IssuesBySeverity map[Severity]Delta `json:"issues_by_severity"`
	AveragePageSpeed Delta              `json:"average_page_speed"`
}

// ReportComparison is the historical diff between a current report and
// its predecessor. It references issues by value and never mutates
// either source report.
type ReportComparison struct {
	CurrentID       string                          `json:"current_id"`
	PriorID         string                          `json:"prior_id"`
	ComparedAt      time.Time                       `json:"compared_at"`
	Summary         ComparisonSummary               `json:"summary"`
	NewIssues       []SeoIssue                      `json:"new_issues"`
	ResolvedIssues  []SeoIssue                      `json:"resolved_issues"`
	PagePerformance map[string]PagePerformanceDelta `json:"page_performance"` // by URL
}
