package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/amosWeiskopf/auditsmith/internal/models"
	"github.com/amosWeiskopf/auditsmith/pkg/dataforseo"
)

// buildIssues reduces the raw vendor data into severity-bucketed
// issues. Every issue lands in exactly one bucket; ordering within a
// bucket is deterministic (by type).
func buildIssues(
	pages []dataforseo.PageItem,
	resources []dataforseo.ResourceItem,
	duplicates []dataforseo.DuplicateTagItem,
	nonIndexable []dataforseo.NonIndexableItem,
) map[models.Severity][]models.SeoIssue {
	var issues []models.SeoIssue
	issues = append(issues, checkIssues(pages)...)
	if issue, ok := brokenResourceIssue(resources); ok {
		issues = append(issues, issue)
	}
	issues = append(issues, duplicateTagIssues(duplicates)...)
	issues = append(issues, nonIndexableIssues(nonIndexable)...)

	buckets := make(map[models.Severity][]models.SeoIssue, len(models.Severities))
	for _, sev := range models.Severities {
		buckets[sev] = []models.SeoIssue{}
	}
	for _, issue := range issues {
		buckets[issue.Severity] = append(buckets[issue.Severity], issue)
	}
	for sev := range buckets {
		sort.Slice(buckets[sev], func(i, j int) bool {
			return buckets[sev][i].Type < buckets[sev][j].Type
		})
	}
	return buckets
}

// checkIssues turns every failed vendor check with a recognized
// severity into one issue aggregating the affected pages.
func checkIssues(pages []dataforseo.PageItem) []models.SeoIssue {
	affected := make(map[string][]string)
	for _, page := range pages {
		for checkID, failed := range page.Checks {
			if !failed {
				continue
			}
			if _, ok := severityForCheck(checkID); !ok {
				continue
			}
			affected[checkID] = append(affected[checkID], page.URL)
		}
	}

	issues := make([]models.SeoIssue, 0, len(affected))
	for checkID, urls := range affected {
		info := checkCatalog[checkID]
		sort.Strings(urls)
		issues = append(issues, newIssue(checkID, info, urls))
	}
	return issues
}

// brokenResourceIssue aggregates all broken resources into one
// synthetic high-severity issue.
func brokenResourceIssue(resources []dataforseo.ResourceItem) (models.SeoIssue, bool) {
	var urls []string
	for _, res := range resources {
		if res.StatusCode >= 400 {
			urls = append(urls, res.URL)
		}
	}
	if len(urls) == 0 {
		return models.SeoIssue{}, false
	}
	sort.Strings(urls)

	return newIssue("broken_resources", checkInfo{
		Severity:        models.SeverityHigh,
		Effort:          models.EffortMedium,
		Title:           "Broken resources",
		Description:     fmt.Sprintf("%d resources failed to load with an error status.", len(urls)),
		Impact:          "Missing scripts, styles or images degrade page rendering and user experience.",
		Recommendations: []string{"Restore the failing resources or remove references to them"},
	}, urls), true
}

// duplicateTagIssues groups duplicate-tag results by tag type into one
// issue per type. Duplicate titles are high severity, the rest medium.
// Tag type "content" belongs to the content report, not here.
func duplicateTagIssues(duplicates []dataforseo.DuplicateTagItem) []models.SeoIssue {
	byType := make(map[string][]string)
	for _, dup := range duplicates {
		if dup.TagType == "content" {
			continue
		}
		byType[dup.TagType] = append(byType[dup.TagType], dup.Pages...)
	}

	types := make([]string, 0, len(byType))
	for tagType := range byType {
		types = append(types, tagType)
	}
	sort.Strings(types)

	issues := make([]models.SeoIssue, 0, len(types))
	for _, tagType := range types {
		severity := models.SeverityMedium
		if tagType == "title" {
			severity = models.SeverityHigh
		}
		urls := dedupe(byType[tagType])
		issues = append(issues, newIssue("duplicate_"+tagType, checkInfo{
			Severity:        severity,
			Effort:          models.EffortLow,
			Title:           fmt.Sprintf("Duplicate %s tags", tagType),
			Description:     fmt.Sprintf("%d pages share identical %s tags.", len(urls), tagType),
			Impact:          "Duplicated tags make pages compete against each other in search results.",
			Recommendations: []string{fmt.Sprintf("Write a unique %s for each affected page", tagType)},
		}, urls))
	}
	return issues
}

// nonIndexableIssues groups non-indexable pages by reason into one
// low-severity issue per reason.
func nonIndexableIssues(items []dataforseo.NonIndexableItem) []models.SeoIssue {
	byReason := make(map[string][]string)
	for _, item := range items {
		reason := item.Reason
		if reason == "" {
			reason = "unknown"
		}
		byReason[reason] = append(byReason[reason], item.URL)
	}

	reasons := make([]string, 0, len(byReason))
	for reason := range byReason {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)

	issues := make([]models.SeoIssue, 0, len(reasons))
	for _, reason := range reasons {
		urls := dedupe(byReason[reason])
		issues = append(issues, newIssue("non_indexable_"+reason, checkInfo{
			Severity:        models.SeverityLow,
			Effort:          models.EffortMedium,
			Title:           fmt.Sprintf("Pages not indexable (%s)", strings.ReplaceAll(reason, "_", " ")),
			Description:     fmt.Sprintf("%d pages are excluded from indexing: %s.", len(urls), strings.ReplaceAll(reason, "_", " ")),
			Impact:          "Non-indexable pages cannot appear in search results.",
			Recommendations: []string{"Confirm the exclusion is intentional, or lift the restriction"},
		}, urls))
	}
	return issues
}

func newIssue(checkID string, info checkInfo, urls []string) models.SeoIssue {
	return models.SeoIssue{
		ID:              "issue-" + checkID,
		Type:            checkID,
		Category:        CategoryForCheck(checkID),
		Severity:        info.Severity,
		Title:           info.Title,
		Description:     info.Description,
		Impact:          info.Impact,
		AffectedURLs:    urls,
		Recommendations: info.Recommendations,
		Priority:        info.Severity.Priority(),
		Effort:          info.Effort,
	}
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
