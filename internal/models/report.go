package models

import "time"

// Severity classifies how serious an issue is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// Severities lists all buckets from most to least severe.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}

// Priority returns the numeric ranking derived from a severity. Higher
// means more urgent.
func (s Severity) Priority() int {
	switch s {
	case SeverityCritical:
		return 100
	case SeverityHigh:
		return 80
	case SeverityMedium:
		return 60
	case SeverityLow:
		return 40
	case SeverityInfo:
		return 20
	default:
		return 0
	}
}

// Category groups issues by the area of the site they affect.
type Category string

const (
	CategoryPerformance Category = "performance"
	CategoryMobile      Category = "mobile"
	CategoryContent     Category = "content"
	CategorySecurity    Category = "security"
	CategoryTechnical   Category = "technical"
	CategoryOther       Category = "other"
)

// Effort estimates how much work fixing an issue takes.
type Effort string

const (
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

// SeoIssue is one normalized finding in an audit report.
type SeoIssue struct {
	ID              string   `json:"id"`
	Type            string   `json:"type"` // vendor check id, e.g. "no_description"
	Category        Category `json:"category"`
	Severity        Severity `json:"severity"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Impact          string   `json:"impact"`
	AffectedURLs    []string `json:"affected_urls"`
	Recommendations []string `json:"recommendations"`
	Priority        int      `json:"priority"`
	Effort          Effort   `json:"effort"`
}

// SeoAuditReport is the aggregate root produced by one completed audit
// task. A report is immutable once built; a new audit produces a new
// report, optionally linked to its predecessor via Historical.
type SeoAuditReport struct {
	ID          string                  `json:"id"`
	TaskID      string                  `json:"task_id"`
	Target      string                  `json:"target"`
	OwnerID     string                  `json:"owner_id"`
	GeneratedAt time.Time               `json:"generated_at"`
	Website     WebsiteInfo             `json:"website"`
	Summary     ReportSummary           `json:"summary"`
	Issues      map[Severity][]SeoIssue `json:"issues"`
	Performance PerformanceReport       `json:"performance"`
	Content     ContentReport           `json:"content"`
	Security    SecurityReport          `json:"security"`
	Pages       map[string]PageMetrics  `json:"pages"`     // by URL
	Resources   map[string]ResourceInfo `json:"resources"` // by URL
	Links       map[string][]LinkInfo   `json:"links"`     // by source URL
	Historical  *ReportComparison       `json:"historical,omitempty"`
}

// WebsiteInfo describes the crawled site as the vendor saw it.
type WebsiteInfo struct {
	Domain       string    `json:"domain"`
	CMS          string    `json:"cms"`
	Server       string    `json:"server"`
	IP           string    `json:"ip"`
	TotalPages   int       `json:"total_pages"`
	CrawledPages int       `json:"crawled_pages"`
	CrawlStart   time.Time `json:"crawl_start"`
	CrawlEnd     time.Time `json:"crawl_end"`
}

// ReportSummary carries the headline scores and counts.
type ReportSummary struct {
	OnPageScore      float64          `json:"on_page_score"`
	TotalIssues      int              `json:"total_issues"`
	IssuesBySeverity map[Severity]int `json:"issues_by_severity"`
	PageSpeed        PageSpeedStats   `json:"page_speed"`
	Resources        ResourceStats    `json:"resources"`
	Links            LinkStats        `json:"links"`
}

// PageSpeedStats summarizes time-to-interactive across all pages.
type PageSpeedStats struct {
	MinMs        float64           `json:"min_ms"`
	MaxMs        float64           `json:"max_ms"`
	AverageMs    float64           `json:"average_ms"`
	Distribution SpeedDistribution `json:"distribution"`
}

// SpeedDistribution buckets pages by interactive time: fast <=2000ms,
// moderate <=4000ms, slow above that.
type SpeedDistribution struct {
	Fast     int `json:"fast"`
	Moderate int `json:"moderate"`
	Slow     int `json:"slow"`
}

// ResourceStats summarizes fetched page resources.
type ResourceStats struct {
	Total       int            `json:"total"`
	Broken      int            `json:"broken"` // status >= 400
	Slow        int            `json:"slow"`   // load time > 1000ms
	ByType      map[string]int `json:"by_type"`
	TotalSize   int64          `json:"total_size"`
	AverageSize float64        `json:"average_size"`
}

// LinkStats summarizes discovered links by relation.
type LinkStats struct {
	Total     int `json:"total"`
	Internal  int `json:"internal"`
	External  int `json:"external"`
	Nofollow  int `json:"nofollow"`
	Sponsored int `json:"sponsored"`
	UGC       int `json:"ugc"`
}

// CoreWebVitals is the fixed set of performance metrics tracked per
// page and averaged across the site. Times are milliseconds, CLS is
// unitless.
type CoreWebVitals struct {
	LCP        float64 `json:"lcp"`
	FID        float64 `json:"fid"`
	CLS        float64 `json:"cls"`
	TTFB       float64 `json:"ttfb"`
	FCP        float64 `json:"fcp"`
	SpeedIndex float64 `json:"speed_index"`
	TTI        float64 `json:"tti"`
}

// LoadTimeBreakdown splits page load into its phases, in milliseconds.
type LoadTimeBreakdown struct {
	ConnectionMs  float64 `json:"connection_ms"`
	TTFBMs        float64 `json:"ttfb_ms"`
	DownloadMs    float64 `json:"download_ms"`
	DOMCompleteMs float64 `json:"dom_complete_ms"`
	InteractiveMs float64 `json:"interactive_ms"`
}

// PerformanceReport holds the per-page and site-wide speed view.
type PerformanceReport struct {
	SpeedScores   map[string]int               `json:"speed_scores"` // by URL, 0-100
	LoadTimes     map[string]LoadTimeBreakdown `json:"load_times"`   // by URL
	AverageVitals CoreWebVitals                `json:"average_vitals"`
	PageVitals    map[string]CoreWebVitals     `json:"page_vitals"` // by URL
	MobileScore   float64                      `json:"mobile_score"`
}

// DuplicateCluster is a group of pages sharing near-identical content.
type DuplicateCluster struct {
	Pages      []string `json:"pages"`
	Similarity float64  `json:"similarity"`
}

// MetadataGap names the required metadata fields a page is missing.
type MetadataGap struct {
	URL     string   `json:"url"`
	Missing []string `json:"missing"`
}

// KeywordDensity is one keyword with its highest observed density.
type KeywordDensity struct {
	Keyword string  `json:"keyword"`
	Density float64 `json:"density"`
}

// ContentReport holds word counts, quality signals and keyword data.
type ContentReport struct {
	WordCounts       map[string]int     `json:"word_counts"` // by URL
	AverageWordCount float64            `json:"average_word_count"`
	ReadabilityScore float64            `json:"readability_score"`
	QualityScore     float64            `json:"quality_score"`
	DuplicateContent []DuplicateCluster `json:"duplicate_content"`
	MissingMetadata  []MetadataGap      `json:"missing_metadata"`
	TopKeywords      []KeywordDensity   `json:"top_keywords"`
}

// SSLInfo describes the site certificate.
type SSLInfo struct {
	Valid    bool      `json:"valid"`
	Issuer   string    `json:"issuer"`
	Expiry   time.Time `json:"expiry"`
	Protocol string    `json:"protocol"`
}

// SecurityReport holds SSL state, header compliance and findings.
type SecurityReport struct {
	SSL             SSLInfo         `json:"ssl"`
	Headers         map[string]bool `json:"headers"` // header name -> present
	Vulnerabilities []string        `json:"vulnerabilities"`
}

// PageMetrics is the normalized per-page view of the vendor's crawl
// data. Every optional vendor field has an explicit zero default.
type PageMetrics struct {
	URL              string             `json:"url"`
	StatusCode       int                `json:"status_code"`
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	HasCharset       bool               `json:"has_charset"`
	HasOgTitle       bool               `json:"has_og_title"`
	OnPageScore      float64            `json:"on_page_score"`
	ContentLength    int64              `json:"content_length"`
	WordCount        int                `json:"word_count"`
	ReadabilityScore float64            `json:"readability_score"`
	InternalLinks    int                `json:"internal_links"`
	ExternalLinks    int                `json:"external_links"`
	Load             LoadTimeBreakdown  `json:"load"`
	Vitals           CoreWebVitals      `json:"vitals"`
	Mobile           MobileChecks       `json:"mobile"`
	Checks           map[string]bool    `json:"checks"`   // vendor check id -> failed
	Keywords         map[string]float64 `json:"keywords"` // keyword -> density
}

// MobileChecks are the six boolean mobile-friendliness signals the
// mobile-optimization score is computed from.
type MobileChecks struct {
	HasViewport        bool `json:"has_viewport"`
	ResponsiveImages   bool `json:"responsive_images"`
	LegibleFontSizes   bool `json:"legible_font_sizes"`
	TapTargetsSized    bool `json:"tap_targets_sized"`
	NoHorizontalScroll bool `json:"no_horizontal_scroll"`
	NoInterstitials    bool `json:"no_interstitials"`
}

// Score returns the fraction of mobile checks satisfied, 0-100.
func (m MobileChecks) Score() float64 {
	passed := 0
	for _, ok := range []bool{
		m.HasViewport, m.ResponsiveImages, m.LegibleFontSizes,
		m.TapTargetsSized, m.NoHorizontalScroll, m.NoInterstitials,
	} {
		if ok {
			passed++
		}
	}
	return float64(passed) / 6 * 100
}

// ResourceInfo is the normalized view of one fetched resource.
type ResourceInfo struct {
	URL        string  `json:"url"`
	Type       string  `json:"type"` // script, stylesheet, image, font, other
	StatusCode int     `json:"status_code"`
	Size       int64   `json:"size"`
	LoadTimeMs float64 `json:"load_time_ms"`
	OnPage     string  `json:"on_page"` // URL of the page referencing it
}

// Broken reports whether the resource failed to load.
func (r ResourceInfo) Broken() bool { return r.StatusCode >= 400 }

// Slow reports whether the resource took longer than a second to load.
func (r ResourceInfo) Slow() bool { return r.LoadTimeMs > 1000 }

// LinkInfo is the normalized view of one discovered link.
type LinkInfo struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Anchor    string `json:"anchor"`
	Internal  bool   `json:"internal"`
	Nofollow  bool   `json:"nofollow"`
	Sponsored bool   `json:"sponsored"`
	UGC       bool   `json:"ugc"`
}
