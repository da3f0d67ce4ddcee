package report

import (
	"strings"

	"github.com/amosWeiskopf/auditsmith/internal/models"
	"github.com/amosWeiskopf/auditsmith/pkg/dataforseo"
)

// buildSummary reduces the raw summary plus the already-bucketed
// issues into headline scores and counts. Severity counts come from
// the reduced buckets so the total-issues invariant holds by
// construction; info-level findings are counted per bucket but
// excluded from the total.
func buildSummary(
	sum *dataforseo.SummaryResult,
	pages []dataforseo.PageItem,
	resources []dataforseo.ResourceItem,
	links []dataforseo.LinkItem,
	issues map[models.Severity][]models.SeoIssue,
) models.ReportSummary {
	bySeverity := make(map[models.Severity]int, len(models.Severities))
	total := 0
	for _, sev := range models.Severities {
		n := len(issues[sev])
		bySeverity[sev] = n
		if sev != models.SeverityInfo {
			total += n
		}
	}

	return models.ReportSummary{
		OnPageScore:      sum.OnPageScore,
		TotalIssues:      total,
		IssuesBySeverity: bySeverity,
		PageSpeed:        pageSpeedStats(pages),
		Resources:        resourceStats(resources),
		Links:            linkStats(links),
	}
}

// pageSpeedStats scans every page's interactive time for min, max,
// average and the three-bucket distribution.
func pageSpeedStats(pages []dataforseo.PageItem) models.PageSpeedStats {
	stats := models.PageSpeedStats{}
	if len(pages) == 0 {
		return stats
	}

	var sum float64
	stats.MinMs = pages[0].Timing.TimeToInteractive
	for _, page := range pages {
		tti := page.Timing.TimeToInteractive
		sum += tti
		if tti < stats.MinMs {
			stats.MinMs = tti
		}
		if tti > stats.MaxMs {
			stats.MaxMs = tti
		}
		switch {
		case tti <= 2000:
			stats.Distribution.Fast++
		case tti <= 4000:
			stats.Distribution.Moderate++
		default:
			stats.Distribution.Slow++
		}
	}
	stats.AverageMs = sum / float64(len(pages))
	return stats
}

// resourceStats counts broken and slow resources and buckets them by
// type-name substring.
func resourceStats(resources []dataforseo.ResourceItem) models.ResourceStats {
	stats := models.ResourceStats{ByType: make(map[string]int)}
	if len(resources) == 0 {
		return stats
	}

	var totalSize int64
	for _, res := range resources {
		stats.Total++
		if res.StatusCode >= 400 {
			stats.Broken++
		}
		if res.FetchTime > 1000 {
			stats.Slow++
		}
		stats.ByType[resourceTypeBucket(res.ResourceType)]++
		totalSize += res.Size
	}
	stats.TotalSize = totalSize
	stats.AverageSize = float64(totalSize) / float64(stats.Total)
	return stats
}

// resourceTypeBucket normalizes a vendor resource type by substring
// match.
func resourceTypeBucket(resourceType string) string {
	t := strings.ToLower(resourceType)
	switch {
	case strings.Contains(t, "script"):
		return "script"
	case strings.Contains(t, "style"), strings.Contains(t, "css"):
		return "stylesheet"
	case strings.Contains(t, "image"), strings.Contains(t, "img"):
		return "image"
	case strings.Contains(t, "font"):
		return "font"
	default:
		return "other"
	}
}

// linkStats scans link types and relation attributes.
func linkStats(links []dataforseo.LinkItem) models.LinkStats {
	stats := models.LinkStats{}
	for _, link := range links {
		stats.Total++
		if link.Type == "internal" {
			stats.Internal++
		} else {
			stats.External++
		}
		for _, attr := range link.Attributes {
			switch strings.ToLower(attr) {
			case "nofollow":
				stats.Nofollow++
			case "sponsored":
				stats.Sponsored++
			case "ugc":
				stats.UGC++
			}
		}
	}
	return stats
}
