package dataforseo

import "encoding/json"

// Response is the envelope every vendor endpoint answers with. Status
// codes are five-digit; the 2xxxx class means success at that level.
type Response struct {
	Version       string         `json:"version"`
	StatusCode    int            `json:"status_code"`
	StatusMessage string         `json:"status_message"`
	Cost          float64        `json:"cost"`
	TasksCount    int            `json:"tasks_count"`
	TasksError    int            `json:"tasks_error"`
	Tasks         []TaskEnvelope `json:"tasks"`
}

// TaskEnvelope wraps one task's result inside the response envelope.
type TaskEnvelope struct {
	ID            string          `json:"id"`
	StatusCode    int             `json:"status_code"`
	StatusMessage string          `json:"status_message"`
	Cost          float64         `json:"cost"`
	Result        json.RawMessage `json:"result"`
}

// statusOK reports whether a vendor status code is in the success class.
func statusOK(code int) bool {
	return code >= 20000 && code < 30000
}

// TaskPostRequest is the crawl submission payload.
type TaskPostRequest struct {
	Target           string `json:"target"`
	MaxCrawlPages    int    `json:"max_crawl_pages"`
	EnableJavaScript bool   `json:"enable_javascript,omitempty"`
	LoadResources    bool   `json:"load_resources,omitempty"`
	CheckSpell       bool   `json:"check_spell,omitempty"`
	Tag              string `json:"tag,omitempty"`
}

// DomainInfo describes the crawled site in the summary result.
type DomainInfo struct {
	Name       string `json:"name"`
	CMS        string `json:"cms"`
	IP         string `json:"ip"`
	Server     string `json:"server"`
	CrawlStart string `json:"crawl_start"`
	CrawlEnd   string `json:"crawl_end"`
	TotalPages int    `json:"total_pages"`
}

// SummaryResult is the vendor's view of crawl progress and site-wide
// scoring.
type SummaryResult struct {
	CrawlProgress    int            `json:"crawl_progress"` // percent, 0-100
	PagesCrawled     int            `json:"pages_crawled"`
	PagesInQueue     int            `json:"pages_in_queue"`
	Domain           DomainInfo     `json:"domain_info"`
	OnPageScore      float64        `json:"onpage_score"`
	IssuesBySeverity map[string]int `json:"issues_by_severity"`
}

// PageTiming splits one page's load into phases, milliseconds.
type PageTiming struct {
	ConnectionTime    float64 `json:"connection_time"`
	WaitingTime       float64 `json:"waiting_time"` // time to first byte
	DownloadTime      float64 `json:"download_time"`
	DOMComplete       float64 `json:"dom_complete"`
	TimeToInteractive float64 `json:"time_to_interactive"`
}

// WebVitals are the per-page Core Web Vitals the vendor measured.
// Pages crawled without a browser omit them.
type WebVitals struct {
	LCP        float64 `json:"largest_contentful_paint"`
	FID        float64 `json:"first_input_delay"`
	CLS        float64 `json:"cumulative_layout_shift"`
	TTFB       float64 `json:"time_to_first_byte"`
	FCP        float64 `json:"first_contentful_paint"`
	SpeedIndex float64 `json:"speed_index"`
	TTI        float64 `json:"time_to_interactive"`
}

// PageMeta carries the page's metadata fields.
type PageMeta struct {
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Charset         string            `json:"charset"`
	SocialMediaTags map[string]string `json:"social_media_tags"`
}

// PageItem is one crawled page in the pages result.
type PageItem struct {
	URL                string             `json:"url"`
	StatusCode         int                `json:"status_code"`
	OnPageScore        float64            `json:"onpage_score"`
	Meta               PageMeta           `json:"meta"`
	ContentLength      int64              `json:"size"`
	ReadabilityScore   float64            `json:"flesch_kincaid_readability"`
	InternalLinksCount int                `json:"internal_links_count"`
	ExternalLinksCount int                `json:"external_links_count"`
	Timing             PageTiming         `json:"page_timing"`
	Vitals             *WebVitals         `json:"web_vitals,omitempty"`
	Checks             map[string]bool    `json:"checks"` // check id -> check failed
	KeywordDensity     map[string]float64 `json:"keyword_density"`
}

// ResourceItem is one fetched resource in the resources result.
type ResourceItem struct {
	URL          string  `json:"url"`
	ResourceType string  `json:"resource_type"`
	StatusCode   int     `json:"status_code"`
	Size         int64   `json:"size"`
	FetchTime    float64 `json:"fetch_time"` // milliseconds
	PageURL      string  `json:"page_url"`
}

// LinkItem is one discovered link in the links result.
type LinkItem struct {
	From       string   `json:"link_from"`
	To         string   `json:"link_to"`
	Anchor     string   `json:"text"`
	Type       string   `json:"type"` // "internal" or "external"
	Attributes []string `json:"link_attribute"`
}

// DuplicateTagItem groups pages sharing one duplicated tag value. The
// vendor reuses tag_type "content" for duplicate-content clusters.
type DuplicateTagItem struct {
	TagType    string   `json:"tag_type"` // title, description, h1, content
	Pages      []string `json:"pages"`
	Similarity float64  `json:"similarity"`
}

// NonIndexableItem is one page the vendor could not index.
type NonIndexableItem struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// SSLCertificate describes the site certificate in the security result.
type SSLCertificate struct {
	Valid      bool   `json:"valid_certificate"`
	Issuer     string `json:"certificate_issuer"`
	Expiration string `json:"certificate_expiration_date"`
	Protocol   string `json:"protocol"`
}

// SecurityResult is the vendor's site security assessment.
type SecurityResult struct {
	SSL             SSLCertificate  `json:"ssl_info"`
	SecurityHeaders map[string]bool `json:"security_headers"`
	Vulnerabilities []string        `json:"vulnerabilities"`
}
