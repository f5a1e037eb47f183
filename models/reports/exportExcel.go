package reports

import (
	"fmt"

	"bitbucket.org/darshanedu/insight_backend/models"
	"github.com/xuri/excelize/v2"
)

// LedgerExportRows flattens matched records into uniform export rows.
// Used by both the delimited-text and workbook exports so the two stay
// in sync.
func LedgerExportRows(records []models.PerformanceRecord) ([]string, [][]string) {
	headers := []string{"Branch", "Wing", "Fiscal Year", "Category", "Sub Category", "Head", "Amount"}
	var rows [][]string
	for _, r := range records {
		for _, item := range r.Financials.DetailedExpenses {
			rows = append(rows, []string{
				r.BranchName,
				r.Wing,
				r.FiscalYear,
				string(item.Category),
				item.SubCategory,
				item.Head,
				item.Amount.String(),
			})
		}
	}
	return headers, rows
}

// BuildLedgerWorkbook renders the flattened ledger as a one-sheet xlsx
// workbook. Callers own closing the returned file.
func BuildLedgerWorkbook(records []models.PerformanceRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Ledger"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers, rows := LedgerExportRows(records)
	headerCell, err := excelize.CoordinatesToCellName(1, 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, headerCell, &headers); err != nil {
		return nil, err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastHeaderCell, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, headerCell, lastHeaderCell, headerStyle); err != nil {
		return nil, err
	}
	return f, nil
}

// LedgerExportFileName names a download after its scope.
func LedgerExportFileName(scope ReportScope) string {
	branch := scope.BranchName
	if branch == "" {
		branch = "all-branches"
	}
	return fmt.Sprintf("ledger-%s-%s-%s.xlsx", branch, scope.FromYear, scope.ToYear)
}
