package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

// LedgerItem is one categorized (label, amount) line extracted from a
// source document. Owned by its parent record; `head` keeps the original
// description for audit traceability.
type LedgerItem struct {
	Category    LedgerCategory  `json:"category"`
	SubCategory string          `json:"subCategory"`
	Head        string          `json:"head"`
	Amount      decimal.Decimal `json:"amount"`
}

type RevenueBreakdown struct {
	Tuition       decimal.Decimal `json:"tuition"`
	Transport     decimal.Decimal `json:"transport"`
	Hostel        decimal.Decimal `json:"hostel"`
	Activities    decimal.Decimal `json:"activities"`
	Miscellaneous decimal.Decimal `json:"miscellaneous"`
}

type CostBreakdown struct {
	AcademicSalaries    decimal.Decimal `json:"academicSalaries"`
	NonTeachingSalaries decimal.Decimal `json:"nonTeachingSalaries"`
	AdminOps            decimal.Decimal `json:"adminOps"`
	Infrastructure      decimal.Decimal `json:"infrastructure"`
	Utilities           decimal.Decimal `json:"utilities"`
	Transport           decimal.Decimal `json:"transport"`
	Marketing           decimal.Decimal `json:"marketing"`
	Technology          decimal.Decimal `json:"technology"`
	Maintenance         decimal.Decimal `json:"maintenance"`
	Miscellaneous       decimal.Decimal `json:"miscellaneous"`
}

type FinancialData struct {
	Revenue          decimal.Decimal  `json:"revenue"`
	Expenses         decimal.Decimal  `json:"expenses"`
	Surplus          decimal.Decimal  `json:"surplus"`
	CashFlow         decimal.Decimal  `json:"cashFlow"`
	CapEx            decimal.Decimal  `json:"capEx"`
	Receivables      decimal.Decimal  `json:"receivables"`
	RevenueBreakdown RevenueBreakdown `json:"revenueBreakdown"`
	CostBreakdown    CostBreakdown    `json:"costBreakdown"`
	DetailedExpenses []LedgerItem     `json:"detailedExpenses"`

	FeeRealization       decimal.Decimal `json:"feeRealization"`
	BadDebts             decimal.Decimal `json:"badDebts"`
	RecurringRevenue     decimal.Decimal `json:"recurringRevenue"`
	OneTimeRevenue       decimal.Decimal `json:"oneTimeRevenue"`
	RevenueGrowth        decimal.Decimal `json:"revenueGrowth"`
	ExpenseGrowth        decimal.Decimal `json:"expenseGrowth"`
	FixedCosts           decimal.Decimal `json:"fixedCosts"`
	VariableCosts        decimal.Decimal `json:"variableCosts"`
	BreakEvenStudents    decimal.Decimal `json:"breakEvenStudents"`
	DropoutRevenueImpact decimal.Decimal `json:"dropoutRevenueImpact"`

	GrossSurplus     decimal.Decimal `json:"grossSurplus"`
	OperatingSurplus decimal.Decimal `json:"operatingSurplus"`
	NetSurplus       decimal.Decimal `json:"netSurplus"`
	GrossMargin      decimal.Decimal `json:"grossMargin"`
	OperatingMargin  decimal.Decimal `json:"operatingMargin"`
	NetMargin        decimal.Decimal `json:"netMargin"`
	ProfitPerStudent decimal.Decimal `json:"profitPerStudent"`

	CashBalance            decimal.Decimal `json:"cashBalance"`
	MonthlyBurnRate        decimal.Decimal `json:"monthlyBurnRate"`
	MonthsOfRunway         decimal.Decimal `json:"monthsOfRunway"`
	ReceivablesDays        decimal.Decimal `json:"receivablesDays"`
	AssetValue             decimal.Decimal `json:"assetValue"`
	LiabilitiesValue       decimal.Decimal `json:"liabilitiesValue"`
	ReturnOnAssets         decimal.Decimal `json:"returnOnAssets"`
	MaintenanceToAssetRate decimal.Decimal `json:"maintenanceToAssetRatio"`
}

// ClassMetric is one grade level's enrollment plus heuristically derived
// capacity (enrollment x 1.2 rounded up, or a flat 40 when enrollment is 0).
type ClassMetric struct {
	Grade       string          `json:"grade"`
	Enrollment  int             `json:"enrollment"`
	Capacity    int             `json:"capacity"`
	Revenue     decimal.Decimal `json:"revenue"`
	Withdrawals int             `json:"withdrawals"`
	Admissions  int             `json:"admissions"`
}

type AcademicData struct {
	Enrollment            int           `json:"enrollment"`
	Admissions            int           `json:"admissions"`
	Withdrawals           int           `json:"withdrawals"`
	Capacity              int           `json:"capacity"`
	RetentionRate         float64       `json:"retentionRate"`
	ClassMetrics          []ClassMetric `json:"classMetrics"`
	EnrollmentGrowth      float64       `json:"enrollmentGrowth"`
	UtilizationClassrooms float64       `json:"utilizationClassrooms"`
	UtilizationLabs       float64       `json:"utilizationLabs"`
}

type MonthlyCashFlow struct {
	Month      string          `json:"month"`
	Inflow     decimal.Decimal `json:"inflow"`
	Outflow    decimal.Decimal `json:"outflow"`
	Net        decimal.Decimal `json:"net"`
	Cumulative decimal.Decimal `json:"cumulative"`
}

type MonthlyCashFlowList []MonthlyCashFlow

// The document sub-structures are persisted as JSON columns; the record
// is a full-replace snapshot, never patched field-by-field.

func (f FinancialData) Value() (driver.Value, error) {
	return json.Marshal(f)
}

func (f *FinancialData) Scan(value interface{}) error {
	return scanJSONColumn(value, f)
}

func (a AcademicData) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *AcademicData) Scan(value interface{}) error {
	return scanJSONColumn(value, a)
}

func (m MonthlyCashFlowList) Value() (driver.Value, error) {
	if m == nil {
		m = MonthlyCashFlowList{}
	}
	return json.Marshal(m)
}

func (m *MonthlyCashFlowList) Scan(value interface{}) error {
	return scanJSONColumn(value, m)
}

func scanJSONColumn(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported column type for json document")
	}
}

// EmptyFinancials returns an all-zero financial structure; Admission
// records carry one so consumers never see a null document.
func EmptyFinancials() FinancialData {
	return FinancialData{DetailedExpenses: []LedgerItem{}}
}
