package models

import (
	"context"
	"errors"
	"io"
	"regexp"

	"bitbucket.org/darshanedu/insight_backend/config"
	"bitbucket.org/darshanedu/insight_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var (
	revenueKeywordRe = regexp.MustCompile(`(?i)fee|receipt|income|revenue`)
	gridHeaderRe     = regexp.MustCompile(`(?i)class|grade|total`)
)

// UploadScope identifies where an uploaded workbook's data belongs.
type UploadScope struct {
	BranchName string
	Wing       string
	FiscalYear string
	RecordType RecordType
	FileName   string
}

// ImportPerformanceXlsx reads the first sheet of an uploaded workbook as
// a (label, amount) grid and builds one record for the scope. A read
// failure aborts the whole ingestion; nothing is persisted here.
func ImportPerformanceXlsx(ctx context.Context, reader io.Reader, scope UploadScope) (PerformanceRecord, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		config.LogError(config.GetLogger(), "importXlsx", "ImportPerformanceXlsx", "Could not open workbook", scope.FileName, err)
		return PerformanceRecord{}, errors.New("could not read the uploaded spreadsheet")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return PerformanceRecord{}, errors.New("the uploaded spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		config.LogError(config.GetLogger(), "importXlsx", "ImportPerformanceXlsx", "Could not read sheet rows", sheets[0], err)
		return PerformanceRecord{}, errors.New("could not read the uploaded spreadsheet")
	}

	scope.FiscalYear = utils.NormalizeFiscalYear(scope.FiscalYear)
	if scope.RecordType == RecordTypeAdmission {
		return BuildAdmissionRecord(ExtractAdmissionRows(rows), scope), nil
	}
	revenue, expenses, ledger := ExtractFinanceRows(rows)
	record := MapFinanceRecord(FinanceMapInput{
		BranchName: scope.BranchName,
		Wing:       scope.Wing,
		FiscalYear: scope.FiscalYear,
		FileName:   scope.FileName,
		Revenue:    revenue,
		Expenses:   expenses,
		Ledger:     ledger,
	})
	return record, nil
}

// ExtractFinanceRows classifies each (label, amount) row as revenue or
// expense by keyword. Zero-valued cells with a label are kept as data;
// only rows with no amount cell at all are skipped.
func ExtractFinanceRows(rows [][]string) (decimal.Decimal, decimal.Decimal, []LedgerItem) {
	revenue := decimal.Zero
	expenses := decimal.Zero
	ledger := []LedgerItem{}
	zeroCells := 0

	for _, row := range rows {
		if len(row) < 2 || row[1] == "" {
			continue
		}
		label := utils.CleanText(row[0])
		if label == "" {
			continue
		}
		amount := utils.ParseAmount(row[1])
		if amount.IsZero() {
			zeroCells++
		}
		if revenueKeywordRe.MatchString(label) {
			revenue = revenue.Add(amount)
			ledger = append(ledger, LedgerItem{
				Category:    LedgerCategoryRevenue,
				SubCategory: "Uploaded Revenue",
				Head:        label,
				Amount:      amount,
			})
		} else {
			expenses = expenses.Add(amount)
			ledger = append(ledger, LedgerItem{
				Category:    LedgerCategoryExpenses,
				SubCategory: "General",
				Head:        label,
				Amount:      amount,
			})
		}
	}
	if zeroCells > 0 {
		config.LogInfo(config.GetLogger(), "importXlsx", "ExtractFinanceRows", "Rows parsed to zero amount", zeroCells)
	}
	return revenue, expenses, ledger
}

// ExtractAdmissionRows turns a grade/count grid into class metrics,
// skipping header and total rows.
func ExtractAdmissionRows(rows [][]string) []ClassMetric {
	metrics := []ClassMetric{}
	for _, row := range rows {
		if len(row) < 2 || row[1] == "" {
			continue
		}
		grade := utils.CleanText(row[0])
		if grade == "" || gridHeaderRe.MatchString(grade) {
			continue
		}
		enrollment := int(utils.ParseAmount(row[1]).IntPart())
		metrics = append(metrics, ClassMetric{
			Grade:      grade,
			Enrollment: enrollment,
			Capacity:   classCapacity(enrollment),
		})
	}
	return metrics
}

// classCapacity estimates a class's seat count: enrollment plus 20%
// headroom rounded up, or a flat 40 for an empty class.
func classCapacity(enrollment int) int {
	if enrollment <= 0 {
		return 40
	}
	capacity := (enrollment*12 + 9) / 10
	return capacity
}
