package report

import (
	"strings"

	"github.com/amosWeiskopf/auditsmith/internal/models"
)

// categoryRules maps check-id substrings to categories, evaluated in
// order. The matching is heuristic: unfamiliar check ids fall through
// to "other".
var categoryRules = []struct {
	substrings []string
	category   models.Category
}{
	{[]string{"speed", "loading", "load_time", "cache"}, models.CategoryPerformance},
	{[]string{"mobile", "viewport", "amp", "tap_target", "font_size", "interstitial", "horizontal_scroll", "responsive"}, models.CategoryMobile},
	{[]string{"security", "ssl", "https", "certificate"}, models.CategorySecurity},
	{[]string{"canonical", "sitemap", "robots", "index", "redirect", "broken", "4xx", "5xx", "doctype", "markup", "schema", "url"}, models.CategoryTechnical},
	{[]string{"title", "description", "meta", "content", "keyword", "readability", "h1", "image_alt", "spell", "favicon"}, models.CategoryContent},
}

// CategoryForCheck infers the issue category from a vendor check id.
func CategoryForCheck(checkID string) models.Category {
	id := strings.ToLower(checkID)
	for _, rule := range categoryRules {
		for _, s := range rule.substrings {
			if strings.Contains(id, s) {
				return rule.category
			}
		}
	}
	return models.CategoryOther
}

// checkInfo is the catalog entry for one recognized vendor check.
// Effort follows the vendor's documented fix complexity.
type checkInfo struct {
	Severity        models.Severity
	Effort          models.Effort
	Title           string
	Description     string
	Impact          string
	Recommendations []string
}

// checkCatalog lists the vendor checks that produce issues. Checks
// absent from the catalog have no recognized severity and are skipped.
var checkCatalog = map[string]checkInfo{
	"is_5xx": {
		Severity:        models.SeverityCritical,
		Effort:          models.EffortHigh,
		Title:           "Pages return server errors",
		Description:     "Pages answered with a 5xx status code during the crawl.",
		Impact:          "Server errors make pages unavailable to both visitors and search engines.",
		Recommendations: []string{"Inspect server logs for the failing URLs", "Fix the underlying application or infrastructure fault"},
	},
	"is_broken": {
		Severity:        models.SeverityCritical,
		Effort:          models.EffortMedium,
		Title:           "Broken pages",
		Description:     "Pages could not be loaded at all during the crawl.",
		Impact:          "Broken pages are dropped from search indexes and dead-end users.",
		Recommendations: []string{"Restore the page or redirect it to a working replacement"},
	},
	"redirect_loop": {
		Severity:        models.SeverityCritical,
		Effort:          models.EffortMedium,
		Title:           "Redirect loops",
		Description:     "Pages redirect in a cycle and never resolve.",
		Impact:          "Crawlers abandon looping URLs and users see browser errors.",
		Recommendations: []string{"Break the cycle so every redirect chain ends at a 200 page"},
	},
	"no_https": {
		Severity:        models.SeverityCritical,
		Effort:          models.EffortHigh,
		Title:           "Pages served without HTTPS",
		Description:     "Pages are reachable over plain HTTP only.",
		Impact:          "Browsers flag the site as not secure and rankings suffer.",
		Recommendations: []string{"Install a TLS certificate", "Redirect all HTTP traffic to HTTPS"},
	},
	"ssl_certificate_expired": {
		Severity:        models.SeverityCritical,
		Effort:          models.EffortLow,
		Title:           "Expired SSL certificate",
		Description:     "The site's TLS certificate is past its expiry date.",
		Impact:          "Visitors are blocked by full-page browser warnings.",
		Recommendations: []string{"Renew the certificate and enable automated renewal"},
	},
	"is_4xx": {
		Severity:        models.SeverityHigh,
		Effort:          models.EffortMedium,
		Title:           "Pages return client errors",
		Description:     "Pages answered with a 4xx status code during the crawl.",
		Impact:          "Linked pages that return errors waste crawl budget and lose link equity.",
		Recommendations: []string{"Fix or redirect the failing URLs", "Remove internal links pointing at them"},
	},
	"no_title": {
		Severity:        models.SeverityHigh,
		Effort:          models.EffortLow,
		Title:           "Missing title tags",
		Description:     "Pages have no <title> element.",
		Impact:          "Search engines synthesize titles for these pages, usually badly.",
		Recommendations: []string{"Write a unique, descriptive title of 30-60 characters for each page"},
	},
	"high_loading_time": {
		Severity:        models.SeverityHigh,
		Effort:          models.EffortHigh,
		Title:           "Slow-loading pages",
		Description:     "Pages take substantially longer than recommended to become interactive.",
		Impact:          "Slow pages rank lower and lose visitors before first paint.",
		Recommendations: []string{"Compress and lazy-load heavy assets", "Serve static resources from a CDN"},
	},
	"no_description": {
		Severity:        models.SeverityMedium,
		Effort:          models.EffortLow,
		Title:           "Missing meta descriptions",
		Description:     "Pages have no meta description.",
		Impact:          "Search results show auto-extracted snippets instead of your copy.",
		Recommendations: []string{"Write unique 120-160 character descriptions for each page"},
	},
	"no_h1_tag": {
		Severity:        models.SeverityMedium,
		Effort:          models.EffortLow,
		Title:           "Missing H1 headings",
		Description:     "Pages have no top-level heading.",
		Impact:          "Missing headings weaken the page's topical signal.",
		Recommendations: []string{"Add one H1 per page describing its main topic"},
	},
	"title_too_long": {
		Severity:        models.SeverityMedium,
		Effort:          models.EffortLow,
		Title:           "Title tags too long",
		Description:     "Page titles exceed the length search engines display.",
		Impact:          "Truncated titles lose their call to action in search results.",
		Recommendations: []string{"Shorten titles to at most 60 characters"},
	},
	"low_content_rate": {
		Severity:        models.SeverityMedium,
		Effort:          models.EffortHigh,
		Title:           "Thin content",
		Description:     "Pages carry very little text relative to their markup.",
		Impact:          "Thin pages struggle to rank and can drag down site quality signals.",
		Recommendations: []string{"Expand the page copy or consolidate thin pages"},
	},
	"no_viewport_meta": {
		Severity:        models.SeverityMedium,
		Effort:          models.EffortLow,
		Title:           "Missing viewport meta tag",
		Description:     "Pages do not declare a mobile viewport.",
		Impact:          "Mobile browsers render these pages at desktop width.",
		Recommendations: []string{`Add <meta name="viewport" content="width=device-width, initial-scale=1">`},
	},
	"canonical_chain": {
		Severity:        models.SeverityMedium,
		Effort:          models.EffortMedium,
		Title:           "Chained canonical tags",
		Description:     "Canonical URLs point at pages that declare another canonical.",
		Impact:          "Chains dilute the canonical signal and may be ignored entirely.",
		Recommendations: []string{"Point every canonical directly at the final URL"},
	},
	"title_too_short": {
		Severity:        models.SeverityLow,
		Effort:          models.EffortLow,
		Title:           "Title tags too short",
		Description:     "Page titles are shorter than recommended.",
		Impact:          "Short titles waste ranking opportunity for descriptive keywords.",
		Recommendations: []string{"Extend titles to at least 30 characters"},
	},
	"no_image_alt": {
		Severity:        models.SeverityLow,
		Effort:          models.EffortMedium,
		Title:           "Images without alt text",
		Description:     "Pages contain images with no alt attribute.",
		Impact:          "Image search traffic and accessibility both suffer.",
		Recommendations: []string{"Describe each meaningful image in its alt attribute"},
	},
	"deprecated_html_tags": {
		Severity:        models.SeverityLow,
		Effort:          models.EffortMedium,
		Title:           "Deprecated HTML tags",
		Description:     "Pages use obsolete HTML elements.",
		Impact:          "Deprecated markup renders inconsistently across browsers.",
		Recommendations: []string{"Replace deprecated elements with CSS equivalents"},
	},
	"no_favicon": {
		Severity:        models.SeverityInfo,
		Effort:          models.EffortLow,
		Title:           "Missing favicon",
		Description:     "The site declares no favicon.",
		Impact:          "Browser tabs and search results show a generic placeholder icon.",
		Recommendations: []string{"Add a favicon and reference it from every page"},
	},
	"irrelevant_meta_keywords": {
		Severity:        models.SeverityInfo,
		Effort:          models.EffortLow,
		Title:           "Irrelevant meta keywords",
		Description:     "Meta keywords do not match the page content.",
		Impact:          "None on rankings; the tag is ignored by major engines.",
		Recommendations: []string{"Remove or update the meta keywords tag"},
	},
}

// severityForCheck returns the recognized severity of a vendor check,
// or false for checks outside the catalog.
func severityForCheck(checkID string) (models.Severity, bool) {
	info, ok := checkCatalog[checkID]
	if !ok {
		return "", false
	}
	return info.Severity, true
}

// mobileCheckIDs are the six vendor checks (all failure-flavored) the
// mobile-optimization score is derived from.
var mobileCheckIDs = struct {
	viewport, responsiveImages, fontSizes, tapTargets, horizontalScroll, interstitials string
}{
	viewport:         "no_viewport_meta",
	responsiveImages: "no_responsive_images",
	fontSizes:        "small_font_sizes",
	tapTargets:       "tap_targets_too_close",
	horizontalScroll: "horizontal_scroll",
	interstitials:    "intrusive_interstitials",
}
