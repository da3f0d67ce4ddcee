package reporter

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/amosWeiskopf/auditsmith/internal/models"
)

func (r *Reporter) renderPDF(report *models.SeoAuditReport) ([]byte, error) {
	p := gofpdf.New("P", "mm", "A4", "")
	p.AddPage()

	p.SetFont("Arial", "B", 16)
	p.Cell(40, 10, fmt.Sprintf("SEO Audit: %s", report.Website.Domain))
	p.Ln(10)

	p.SetFont("Arial", "", 10)
	p.Cell(40, 8, fmt.Sprintf("Generated %s", report.GeneratedAt.Format("2006-01-02 15:04 MST")))
	p.Ln(12)

	p.SetFont("Arial", "B", 12)
	p.Cell(40, 8, "Summary")
	p.Ln(8)
	p.SetFont("Arial", "", 10)
	p.Cell(40, 6, fmt.Sprintf("On-page score: %.1f", report.Summary.OnPageScore))
	p.Ln(6)
	p.Cell(40, 6, fmt.Sprintf("Total issues: %d", report.Summary.TotalIssues))
	p.Ln(6)
	p.Cell(40, 6, fmt.Sprintf("Pages crawled: %d", report.Website.CrawledPages))
	p.Ln(6)
	p.Cell(40, 6, fmt.Sprintf("Mobile score: %.0f", report.Performance.MobileScore))
	p.Ln(6)
	p.Cell(40, 6, fmt.Sprintf("Average page speed: %.0f ms", report.Summary.PageSpeed.AverageMs))
	p.Ln(10)

	p.SetFont("Arial", "B", 12)
	p.Cell(40, 8, "Issues by severity")
	p.Ln(8)
	p.SetFont("Arial", "", 10)
	for _, sev := range models.Severities {
		p.Cell(40, 6, fmt.Sprintf("%s: %d", sev, report.Summary.IssuesBySeverity[sev]))
		p.Ln(6)
	}
	p.Ln(4)

	issues := orderedIssues(report)
	if len(issues) > 0 {
		p.SetFont("Arial", "B", 12)
		p.Cell(40, 8, "Issues")
		p.Ln(8)
		for _, issue := range issues {
			p.SetFont("Arial", "B", 10)
			p.Cell(40, 6, fmt.Sprintf("[%s] %s", issue.Severity, issue.Title))
			p.Ln(6)
			p.SetFont("Arial", "", 9)
			p.MultiCell(0, 5, issue.Description, "", "L", false)
			p.MultiCell(0, 5, fmt.Sprintf("Affected pages: %d, effort: %s", len(issue.AffectedURLs), issue.Effort), "", "L", false)
			p.Ln(2)
		}
	}

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
