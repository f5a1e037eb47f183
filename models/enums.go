package models

import "errors"

type RecordType string

const (
	RecordTypeFinance   RecordType = "Finance"
	RecordTypeAdmission RecordType = "Admission"
)

func ParseRecordType(s string) (RecordType, error) {
	switch s {
	case "Finance":
		return RecordTypeFinance, nil
	case "Admission":
		return RecordTypeAdmission, nil
	default:
		return "", errors.New("invalid record type")
	}
}

type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "Low"
	RiskLevelMedium   RiskLevel = "Medium"
	RiskLevelHigh     RiskLevel = "High"
	RiskLevelCritical RiskLevel = "Critical"
)

type Trend string

const (
	TrendUp     Trend = "Up"
	TrendDown   Trend = "Down"
	TrendStable Trend = "Stable"
)

type LedgerCategory string

const (
	LedgerCategoryRevenue     LedgerCategory = "Revenue"
	LedgerCategoryExpenses    LedgerCategory = "Expenses"
	LedgerCategoryAssets      LedgerCategory = "Assets"
	LedgerCategoryLiabilities LedgerCategory = "Liabilities"
	// Structured imports tag expense rows separately so they are not
	// double-counted by the cost-breakdown views.
	LedgerCategoryDirectExpense LedgerCategory = "Direct Expense"
)

// FiscalMonths is the audit-year month order (April through March).
var FiscalMonths = []string{"Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec", "Jan", "Feb", "Mar"}
