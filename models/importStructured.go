package models

import (
	"math"
	"time"

	"bitbucket.org/darshanedu/insight_backend/utils"
	"github.com/shopspring/decimal"
)

// StructuredTables carries the four pre-segmented (label, amount) grids
// of a structured finance import.
type StructuredTables struct {
	Revenue     [][]string `json:"revenue"`
	Expense     [][]string `json:"expense"`
	Assets      [][]string `json:"assets"`
	Liabilities [][]string `json:"liabilities"`
}

// ImportStructuredFinance sums the revenue, asset and liability tables
// into totals and keeps a per-row ledger for expenses only, tagged
// "Direct Expense" so cost views can tell them from classified lines.
func ImportStructuredFinance(tables StructuredTables, scope UploadScope) PerformanceRecord {
	revenue := sumAmountColumn(tables.Revenue)
	assets := sumAmountColumn(tables.Assets)
	liabilities := sumAmountColumn(tables.Liabilities)

	expenses := decimal.Zero
	ledger := []LedgerItem{}
	for _, row := range tables.Expense {
		if len(row) < 2 || row[1] == "" {
			continue
		}
		label := utils.CleanText(row[0])
		if label == "" {
			continue
		}
		amount := utils.ParseAmount(row[1])
		expenses = expenses.Add(amount)
		ledger = append(ledger, LedgerItem{
			Category:    LedgerCategoryDirectExpense,
			SubCategory: "General",
			Head:        label,
			Amount:      amount,
		})
	}

	return MapFinanceRecord(FinanceMapInput{
		BranchName:  scope.BranchName,
		Wing:        scope.Wing,
		FiscalYear:  utils.NormalizeFiscalYear(scope.FiscalYear),
		FileName:    scope.FileName,
		Revenue:     revenue,
		Expenses:    expenses,
		Assets:      assets,
		Liabilities: liabilities,
		Ledger:      ledger,
	})
}

func sumAmountColumn(rows [][]string) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		if len(row) < 2 || row[1] == "" {
			continue
		}
		total = total.Add(utils.ParseAmount(row[1]))
	}
	return total
}

// Admission derivation ratios. Retention and the admission/withdrawal
// estimates are fixed heuristics until per-student data is ingested.
const (
	admissionRetentionRate   = 96.0
	admissionCapacityRatio   = 1.25
	admissionIntakeRatio     = 0.12
	admissionAttritionRate   = 0.04
	admissionHealthScore     = 80
	admissionGrowthRate      = 2.5
	admissionClassroomsUtil  = 85.0
	admissionLabsUtilization = 78.0
)

// BuildAdmissionRecord rolls class metrics up into a full Admission
// record. Financials are an all-zero structure, not a null document.
func BuildAdmissionRecord(metrics []ClassMetric, scope UploadScope) PerformanceRecord {
	if metrics == nil {
		metrics = []ClassMetric{}
	}
	enrollment := 0
	for _, m := range metrics {
		enrollment += m.Enrollment
	}

	return PerformanceRecord{
		ID:          NewRecordID("adm"),
		Timestamp:   time.Now().UnixMilli(),
		BranchName:  scope.BranchName,
		Wing:        scope.Wing,
		FiscalYear:  utils.NormalizeFiscalYear(scope.FiscalYear),
		RecordType:  RecordTypeAdmission,
		FileName:    scope.FileName,
		HealthScore: admissionHealthScore,
		RiskLevel:   RiskLevelLow,
		Trend:       TrendStable,
		Concessions: decimal.Zero,
		Financials:  EmptyFinancials(),
		Academics: AcademicData{
			Enrollment:            enrollment,
			Admissions:            int(math.Round(float64(enrollment) * admissionIntakeRatio)),
			Withdrawals:           int(math.Round(float64(enrollment) * admissionAttritionRate)),
			Capacity:              int(math.Round(float64(enrollment) * admissionCapacityRatio)),
			RetentionRate:         admissionRetentionRate,
			ClassMetrics:          metrics,
			EnrollmentGrowth:      admissionGrowthRate,
			UtilizationClassrooms: admissionClassroomsUtil,
			UtilizationLabs:       admissionLabsUtilization,
		},
		MonthlyCashFlow: MonthlyCashFlowList{},
	}
}
