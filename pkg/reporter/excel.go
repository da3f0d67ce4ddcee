package reporter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/amosWeiskopf/auditsmith/internal/models"
)

func (r *Reporter) renderXLSX(report *models.SeoAuditReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"667EEA"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})

	if err := writeSummarySheet(f, report, headerStyle); err != nil {
		return nil, err
	}
	if err := writeIssuesSheet(f, report, headerStyle); err != nil {
		return nil, err
	}
	if err := writePagesSheet(f, report, headerStyle); err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, report *models.SeoAuditReport, headerStyle int) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	rows := [][]any{
		{"Metric", "Value"},
		{"Domain", report.Website.Domain},
		{"Generated", report.GeneratedAt.Format("2006-01-02 15:04")},
		{"On-page score", report.Summary.OnPageScore},
		{"Total issues", report.Summary.TotalIssues},
		{"Pages crawled", report.Website.CrawledPages},
		{"Mobile score", report.Performance.MobileScore},
		{"Average page speed (ms)", report.Summary.PageSpeed.AverageMs},
	}
	for _, sev := range models.Severities {
		rows = append(rows, []any{fmt.Sprintf("%s issues", strings.Title(string(sev))), report.Summary.IssuesBySeverity[sev]})
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	f.SetCellStyle(sheet, "A1", "B1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "B", "B", 24)
	return nil
}

func writeIssuesSheet(f *excelize.File, report *models.SeoAuditReport, headerStyle int) error {
	const sheet = "Issues"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := []any{"Severity", "Category", "Type", "Title", "Affected Pages", "Effort", "Description"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	f.SetCellStyle(sheet, "A1", "G1", headerStyle)

	row := 2
	for _, issue := range orderedIssues(report) {
		values := []any{
			string(issue.Severity), string(issue.Category), issue.Type,
			issue.Title, len(issue.AffectedURLs), string(issue.Effort), issue.Description,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		row++
	}

	f.SetColWidth(sheet, "A", "C", 16)
	f.SetColWidth(sheet, "D", "D", 36)
	f.SetColWidth(sheet, "G", "G", 60)
	f.AutoFilter(sheet, fmt.Sprintf("A1:G%d", row-1), nil)
	return nil
}

func writePagesSheet(f *excelize.File, report *models.SeoAuditReport, headerStyle int) error {
	const sheet = "Pages"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := []any{"URL", "Status", "Title", "On-page Score", "Word Count", "Internal Links", "External Links", "Interactive (ms)"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	f.SetCellStyle(sheet, "A1", "H1", headerStyle)

	row := 2
	for _, page := range sortedPages(report) {
		values := []any{
			page.URL, page.StatusCode, page.Title, page.OnPageScore,
			page.WordCount, page.InternalLinks, page.ExternalLinks, page.Load.InteractiveMs,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		row++
	}

	f.SetColWidth(sheet, "A", "A", 48)
	f.SetColWidth(sheet, "C", "C", 36)
	f.AutoFilter(sheet, fmt.Sprintf("A1:H%d", row-1), nil)
	return nil
}
