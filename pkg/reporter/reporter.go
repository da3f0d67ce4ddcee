// Package reporter renders finished audit reports into shareable
// formats: JSON, HTML, Markdown, PDF and Excel.
package reporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/amosWeiskopf/auditsmith/internal/models"
)

// Format names a supported output format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
	FormatXLSX     Format = "xlsx"
)

// Formats lists every supported output format.
var Formats = []Format{FormatJSON, FormatHTML, FormatMarkdown, FormatPDF, FormatXLSX}

// Reporter renders audit reports.
type Reporter struct{}

// New creates a Reporter.
func New() *Reporter {
	return &Reporter{}
}

// Render produces the report in the requested format. PDF and XLSX
// output is binary; the other formats are UTF-8 text.
func (r *Reporter) Render(report *models.SeoAuditReport, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return r.renderJSON(report)
	case FormatHTML:
		return r.renderHTML(report)
	case FormatMarkdown:
		return r.renderMarkdown(report)
	case FormatPDF:
		return r.renderPDF(report)
	case FormatXLSX:
		return r.renderXLSX(report)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func (r *Reporter) renderJSON(report *models.SeoAuditReport) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return data, nil
}

// orderedIssues flattens the severity buckets most-severe first for
// templates that want a single list.
func orderedIssues(report *models.SeoAuditReport) []models.SeoIssue {
	var out []models.SeoIssue
	for _, sev := range models.Severities {
		out = append(out, report.Issues[sev]...)
	}
	return out
}

// sortedPages returns page metrics in URL order for stable output.
func sortedPages(report *models.SeoAuditReport) []models.PageMetrics {
	urls := make([]string, 0, len(report.Pages))
	for url := range report.Pages {
		urls = append(urls, url)
	}
	sort.Strings(urls)
	pages := make([]models.PageMetrics, 0, len(urls))
	for _, url := range urls {
		pages = append(pages, report.Pages[url])
	}
	return pages
}

var htmlTemplate = template.Must(template.New("report").Parse(`
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>SEO Audit - {{.Report.Website.Domain}}</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
            background: #f5f5f5;
        }
        .header {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            padding: 2rem;
            border-radius: 10px;
            margin-bottom: 2rem;
        }
        .score-card {
            background: white;
            border-radius: 10px;
            padding: 1.5rem;
            margin-bottom: 1.5rem;
            box-shadow: 0 2px 10px rgba(0,0,0,0.1);
        }
        .score-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
            gap: 1rem;
            margin: 1rem 0;
        }
        .score-item {
            text-align: center;
            padding: 1rem;
            background: #f8f9fa;
            border-radius: 8px;
        }
        .score-value {
            font-size: 2rem;
            font-weight: bold;
            color: #667eea;
        }
        .score-label {
            color: #666;
            font-size: 0.9rem;
            margin-top: 0.5rem;
        }
        .issue {
            background: white;
            border-left: 4px solid #ffc107;
            padding: 1rem;
            margin: 1rem 0;
            border-radius: 4px;
        }
        .issue.critical { border-left-color: #721c24; }
        .issue.high { border-left-color: #dc3545; }
        .issue.medium { border-left-color: #ffc107; }
        .issue.low { border-left-color: #28a745; }
        .issue.info { border-left-color: #6c757d; }
        .severity-badge {
            display: inline-block;
            padding: 0.25rem 0.75rem;
            border-radius: 4px;
            font-size: 0.85rem;
            font-weight: bold;
            margin-right: 0.5rem;
            background: #6c757d;
            color: white;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>SEO Audit for {{.Report.Website.Domain}}</h1>
        <p>Generated on {{.Report.GeneratedAt.Format "January 2, 2006"}}</p>
    </div>

    <div class="score-card">
        <h2>Summary</h2>
        <div class="score-grid">
            <div class="score-item">
                <div class="score-value">{{printf "%.1f" .Report.Summary.OnPageScore}}</div>
                <div class="score-label">On-Page Score</div>
            </div>
            <div class="score-item">
                <div class="score-value">{{.Report.Summary.TotalIssues}}</div>
                <div class="score-label">Issues Found</div>
            </div>
            <div class="score-item">
                <div class="score-value">{{.Report.Website.CrawledPages}}</div>
                <div class="score-label">Pages Crawled</div>
            </div>
            <div class="score-item">
                <div class="score-value">{{printf "%.0f" .Report.Performance.MobileScore}}</div>
                <div class="score-label">Mobile Score</div>
            </div>
        </div>
    </div>

    {{if .Issues}}
    <div class="score-card">
        <h2>Issues</h2>
        {{range .Issues}}
        <div class="issue {{.Severity}}">
            <span class="severity-badge">{{.Severity}}</span>
            <h4>{{.Title}}</h4>
            <p>{{.Description}}</p>
            <p><small>Impact: {{.Impact}} | Effort: {{.Effort}} | Affected pages: {{len .AffectedURLs}}</small></p>
        </div>
        {{end}}
    </div>
    {{end}}
</body>
</html>
`))

func (r *Reporter) renderHTML(report *models.SeoAuditReport) ([]byte, error) {
	var buf bytes.Buffer
	err := htmlTemplate.Execute(&buf, struct {
		Report *models.SeoAuditReport
		Issues []models.SeoIssue
	}{report, orderedIssues(report)})
	if err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Reporter) renderMarkdown(report *models.SeoAuditReport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# SEO Audit for %s\n\n", report.Website.Domain)
	fmt.Fprintf(&buf, "*Generated on %s*\n\n", report.GeneratedAt.Format("January 2, 2006"))

	fmt.Fprintf(&buf, "## Summary\n\n")
	fmt.Fprintf(&buf, "| Metric | Value |\n")
	fmt.Fprintf(&buf, "|--------|-------|\n")
	fmt.Fprintf(&buf, "| On-page score | %.1f |\n", report.Summary.OnPageScore)
	fmt.Fprintf(&buf, "| Total issues | %d |\n", report.Summary.TotalIssues)
	fmt.Fprintf(&buf, "| Pages crawled | %d |\n", report.Website.CrawledPages)
	fmt.Fprintf(&buf, "| Mobile score | %.0f |\n", report.Performance.MobileScore)
	fmt.Fprintf(&buf, "| Average page speed | %.0f ms |\n\n", report.Summary.PageSpeed.AverageMs)

	fmt.Fprintf(&buf, "### Issues by Severity\n\n")
	fmt.Fprintf(&buf, "| Severity | Count |\n")
	fmt.Fprintf(&buf, "|----------|-------|\n")
	for _, sev := range models.Severities {
		fmt.Fprintf(&buf, "| %s | %d |\n", strings.Title(string(sev)), report.Summary.IssuesBySeverity[sev])
	}
	fmt.Fprintf(&buf, "\n")

	issues := orderedIssues(report)
	if len(issues) > 0 {
		fmt.Fprintf(&buf, "## Issues\n\n")
		for _, issue := range issues {
			fmt.Fprintf(&buf, "### %s\n", issue.Title)
			fmt.Fprintf(&buf, "- **Severity:** %s\n", issue.Severity)
			fmt.Fprintf(&buf, "- **Category:** %s\n", issue.Category)
			fmt.Fprintf(&buf, "- **Effort:** %s\n", issue.Effort)
			fmt.Fprintf(&buf, "- **Description:** %s\n", issue.Description)
			fmt.Fprintf(&buf, "- **Impact:** %s\n", issue.Impact)
			fmt.Fprintf(&buf, "- **Affected pages:** %d\n", len(issue.AffectedURLs))
			for _, rec := range issue.Recommendations {
				fmt.Fprintf(&buf, "- **Recommendation:** %s\n", rec)
			}
			fmt.Fprintf(&buf, "\n")
		}
	}

	if report.Historical != nil {
		fmt.Fprintf(&buf, "## Change Since Previous Audit\n\n")
		fmt.Fprintf(&buf, "- On-page score: %+.1f\n", report.Historical.Summary.OnPageScore.Change)
		fmt.Fprintf(&buf, "- Total issues: %+.0f\n", report.Historical.Summary.TotalIssues.Change)
		fmt.Fprintf(&buf, "- New issues: %d\n", len(report.Historical.NewIssues))
		fmt.Fprintf(&buf, "- Resolved issues: %d\n\n", len(report.Historical.ResolvedIssues))
	}

	return buf.Bytes(), nil
}
