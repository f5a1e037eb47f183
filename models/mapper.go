package models

import (
	"time"

	"github.com/shopspring/decimal"
)

var twelve = decimal.NewFromInt(12)

// FinanceMapInput carries everything an ingestion path accumulated for
// one scope. Optional fields left at their zero value are derived or
// defaulted by MapFinanceRecord.
type FinanceMapInput struct {
	BranchName string
	Wing       string
	FiscalYear string
	FileName   string

	Revenue     decimal.Decimal
	Expenses    decimal.Decimal
	Assets      decimal.Decimal
	Liabilities decimal.Decimal

	// Surplus and Concessions are derived when nil.
	Surplus     *decimal.Decimal
	Concessions *decimal.Decimal

	Ledger           []LedgerItem
	RevenueBreakdown *RevenueBreakdown
	CostBreakdown    *CostBreakdown
	CashBalance      decimal.Decimal
}

// MapFinanceRecord assembles a canonical Finance record from accumulated
// totals. This is always a create: the record gets a fresh id and
// timestamp, and "editing" means writing a new record that wins the
// latest-timestamp dedupe downstream.
func MapFinanceRecord(input FinanceMapInput) PerformanceRecord {
	surplus := input.Revenue.Sub(input.Expenses)
	if input.Surplus != nil {
		surplus = *input.Surplus
	}

	// Binary heuristic, not a continuous score.
	healthScore := 0
	if input.Revenue.IsPositive() {
		if surplus.IsPositive() {
			healthScore = 85
		} else {
			healthScore = 45
		}
	}
	riskLevel := RiskLevelLow
	if surplus.IsNegative() {
		riskLevel = RiskLevelHigh
	}

	concessions := input.Revenue.Mul(decimal.NewFromFloat(0.05)).Round(0)
	if input.Concessions != nil {
		concessions = *input.Concessions
	}

	ledger := input.Ledger
	if ledger == nil {
		ledger = []LedgerItem{}
	}

	financials := EmptyFinancials()
	financials.Revenue = input.Revenue
	financials.Expenses = input.Expenses
	financials.Surplus = surplus
	financials.CashFlow = surplus
	financials.CashBalance = input.CashBalance
	financials.AssetValue = input.Assets
	financials.LiabilitiesValue = input.Liabilities
	financials.DetailedExpenses = ledger
	financials.FeeRealization = decimal.NewFromInt(92)
	financials.BadDebts = decimal.NewFromInt(2)
	financials.MonthlyBurnRate = input.Expenses.Div(twelve)
	financials.MonthsOfRunway = twelve
	if input.RevenueBreakdown != nil {
		financials.RevenueBreakdown = *input.RevenueBreakdown
	} else {
		// Without a per-line split the whole revenue counts as tuition,
		// so the breakdown aggregates stay populated for plain imports.
		financials.RevenueBreakdown = RevenueBreakdown{Tuition: input.Revenue}
	}
	if input.CostBreakdown != nil {
		financials.CostBreakdown = *input.CostBreakdown
	} else {
		financials.CostBreakdown = deriveCostBreakdown(ledger, input.Expenses)
	}

	return PerformanceRecord{
		ID:              NewRecordID("fin"),
		Timestamp:       time.Now().UnixMilli(),
		BranchName:      input.BranchName,
		Wing:            input.Wing,
		FiscalYear:      input.FiscalYear,
		RecordType:      RecordTypeFinance,
		FileName:        input.FileName,
		HealthScore:     healthScore,
		RiskLevel:       riskLevel,
		Trend:           TrendStable,
		Concessions:     concessions,
		Financials:      financials,
		Academics:       AcademicData{ClassMetrics: []ClassMetric{}},
		MonthlyCashFlow: FlatMonthlyDistribution(input.Revenue, input.Expenses),
	}
}

// deriveCostBreakdown lifts staff costs out of the ledger and dumps the
// remainder into miscellaneous, floored at zero.
func deriveCostBreakdown(ledger []LedgerItem, expenses decimal.Decimal) CostBreakdown {
	salaries := decimal.Zero
	for _, item := range ledger {
		if item.SubCategory == SubCategoryStaffCosts {
			salaries = salaries.Add(item.Amount)
		}
	}
	misc := expenses.Sub(salaries)
	if misc.IsNegative() {
		misc = decimal.Zero
	}
	return CostBreakdown{
		AcademicSalaries: salaries,
		Miscellaneous:    misc,
	}
}

// FlatMonthlyDistribution spreads annual revenue and expense evenly over
// the April-March fiscal year with a running cumulative net. A smoothing
// approximation, not actual monthly data.
func FlatMonthlyDistribution(revenue, expenses decimal.Decimal) MonthlyCashFlowList {
	inflow := revenue.Div(twelve)
	outflow := expenses.Div(twelve)
	net := inflow.Sub(outflow)

	flows := make(MonthlyCashFlowList, 0, len(FiscalMonths))
	cumulative := decimal.Zero
	for _, month := range FiscalMonths {
		cumulative = cumulative.Add(net)
		flows = append(flows, MonthlyCashFlow{
			Month:      month,
			Inflow:     inflow,
			Outflow:    outflow,
			Net:        net,
			Cumulative: cumulative,
		})
	}
	return flows
}
