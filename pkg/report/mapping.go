package report

import (
	"time"

	"github.com/amosWeiskopf/auditsmith/internal/models"
	"github.com/amosWeiskopf/auditsmith/pkg/dataforseo"
)

// mapPages normalizes vendor page items into the per-URL metrics map.
// Optional vendor fields collapse to explicit zero values so callers
// never see nil maps.
func mapPages(pages []dataforseo.PageItem) map[string]models.PageMetrics {
	out := make(map[string]models.PageMetrics, len(pages))
	for _, page := range pages {
		metrics := models.PageMetrics{
			URL:              page.URL,
			StatusCode:       page.StatusCode,
			Title:            page.Meta.Title,
			Description:      page.Meta.Description,
			HasCharset:       page.Meta.Charset != "",
			HasOgTitle:       page.Meta.SocialMediaTags["og:title"] != "",
			OnPageScore:      page.OnPageScore,
			ContentLength:    page.ContentLength,
			WordCount:        int(page.ContentLength / charsPerWord),
			ReadabilityScore: page.ReadabilityScore,
			InternalLinks:    page.InternalLinksCount,
			ExternalLinks:    page.ExternalLinksCount,
			Load: models.LoadTimeBreakdown{
				ConnectionMs:  page.Timing.ConnectionTime,
				TTFBMs:        page.Timing.WaitingTime,
				DownloadMs:    page.Timing.DownloadTime,
				DOMCompleteMs: page.Timing.DOMComplete,
				InteractiveMs: page.Timing.TimeToInteractive,
			},
			Mobile:   mobileChecksFor(page),
			Checks:   make(map[string]bool, len(page.Checks)),
			Keywords: make(map[string]float64, len(page.KeywordDensity)),
		}
		if page.Vitals != nil {
			metrics.Vitals = vitalsFromVendor(*page.Vitals)
		}
		for id, failed := range page.Checks {
			metrics.Checks[id] = failed
		}
		for keyword, density := range page.KeywordDensity {
			metrics.Keywords[keyword] = density
		}
		out[page.URL] = metrics
	}
	return out
}

// mapResources keys vendor resource items by URL.
func mapResources(resources []dataforseo.ResourceItem) map[string]models.ResourceInfo {
	out := make(map[string]models.ResourceInfo, len(resources))
	for _, res := range resources {
		out[res.URL] = models.ResourceInfo{
			URL:        res.URL,
			Type:       resourceTypeBucket(res.ResourceType),
			StatusCode: res.StatusCode,
			Size:       res.Size,
			LoadTimeMs: res.FetchTime,
			OnPage:     res.PageURL,
		}
	}
	return out
}

// mapLinks groups vendor link items by their source page URL.
func mapLinks(links []dataforseo.LinkItem) map[string][]models.LinkInfo {
	out := make(map[string][]models.LinkInfo)
	for _, link := range links {
		info := models.LinkInfo{
			From:     link.From,
			To:       link.To,
			Anchor:   link.Anchor,
			Internal: link.Type == "internal",
		}
		for _, attr := range link.Attributes {
			switch attr {
			case "nofollow":
				info.Nofollow = true
			case "sponsored":
				info.Sponsored = true
			case "ugc":
				info.UGC = true
			}
		}
		out[link.From] = append(out[link.From], info)
	}
	return out
}

// buildWebsiteInfo carries the vendor's domain description over to the
// report. Crawl timestamps the vendor failed to format stay zero.
func buildWebsiteInfo(sum *dataforseo.SummaryResult) models.WebsiteInfo {
	info := models.WebsiteInfo{
		Domain:       sum.Domain.Name,
		CMS:          sum.Domain.CMS,
		Server:       sum.Domain.Server,
		IP:           sum.Domain.IP,
		TotalPages:   sum.Domain.TotalPages,
		CrawledPages: sum.PagesCrawled,
	}
	if t, err := time.Parse(time.RFC3339, sum.Domain.CrawlStart); err == nil {
		info.CrawlStart = t
	}
	if t, err := time.Parse(time.RFC3339, sum.Domain.CrawlEnd); err == nil {
		info.CrawlEnd = t
	}
	return info
}
