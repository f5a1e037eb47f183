package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestMapFinanceRecord_DerivesSurplusHealthAndRisk(t *testing.T) {
	record := MapFinanceRecord(FinanceMapInput{
		BranchName: "Darshan Academy [Delhi]",
		Wing:       "Main Wing",
		FiscalYear: "2023-24",
		Revenue:    d("5000000"),
		Expenses:   d("4000000"),
	})

	if record.Financials.Surplus.String() != "1000000" {
		t.Fatalf("expected surplus 1000000, got %s", record.Financials.Surplus.String())
	}
	if record.HealthScore != 85 {
		t.Fatalf("expected health 85, got %d", record.HealthScore)
	}
	if record.RiskLevel != RiskLevelLow {
		t.Fatalf("expected Low risk, got %s", record.RiskLevel)
	}
	if record.ID == "" || record.Timestamp == 0 {
		t.Fatalf("expected fresh identity, got id=%q ts=%d", record.ID, record.Timestamp)
	}
}

func TestMapFinanceRecord_DeficitScoresLowAndHighRisk(t *testing.T) {
	record := MapFinanceRecord(FinanceMapInput{
		Revenue:  d("1000000"),
		Expenses: d("1500000"),
	})
	if record.HealthScore != 45 {
		t.Fatalf("expected health 45, got %d", record.HealthScore)
	}
	if record.RiskLevel != RiskLevelHigh {
		t.Fatalf("expected High risk, got %s", record.RiskLevel)
	}
}

func TestMapFinanceRecord_ZeroRevenueScoresZero(t *testing.T) {
	record := MapFinanceRecord(FinanceMapInput{Expenses: d("100")})
	if record.HealthScore != 0 {
		t.Fatalf("expected health 0, got %d", record.HealthScore)
	}
}

func TestMapFinanceRecord_ConcessionsDefaultToFivePercent(t *testing.T) {
	record := MapFinanceRecord(FinanceMapInput{Revenue: d("1234567")})
	if record.Concessions.String() != "61728" {
		t.Fatalf("expected concessions 61728, got %s", record.Concessions.String())
	}

	supplied := d("99")
	record = MapFinanceRecord(FinanceMapInput{Revenue: d("1234567"), Concessions: &supplied})
	if record.Concessions.String() != "99" {
		t.Fatalf("expected supplied concessions, got %s", record.Concessions.String())
	}
}

func TestMapFinanceRecord_RevenueBreakdownDefaultsToTuition(t *testing.T) {
	record := MapFinanceRecord(FinanceMapInput{Revenue: d("500000"), Expenses: d("300000")})
	b := record.Financials.RevenueBreakdown
	if b.Tuition.String() != "500000" {
		t.Fatalf("expected full revenue as tuition, got %s", b.Tuition.String())
	}
	if !b.Transport.IsZero() || !b.Miscellaneous.IsZero() {
		t.Fatalf("expected remaining breakdown fields at zero: %+v", b)
	}

	supplied := RevenueBreakdown{Tuition: d("400000"), Transport: d("100000")}
	record = MapFinanceRecord(FinanceMapInput{Revenue: d("500000"), RevenueBreakdown: &supplied})
	if record.Financials.RevenueBreakdown.Transport.String() != "100000" {
		t.Fatalf("expected the supplied breakdown, got %+v", record.Financials.RevenueBreakdown)
	}
}

func TestFlatMonthlyDistribution_SumsBackToAnnualTotals(t *testing.T) {
	flows := FlatMonthlyDistribution(d("1200000"), d("600000"))
	if len(flows) != 12 {
		t.Fatalf("expected 12 months, got %d", len(flows))
	}
	if flows[0].Month != "Apr" || flows[11].Month != "Mar" {
		t.Fatalf("expected Apr..Mar ordering, got %s..%s", flows[0].Month, flows[11].Month)
	}

	totalIn := decimal.Zero
	totalOut := decimal.Zero
	for _, f := range flows {
		totalIn = totalIn.Add(f.Inflow)
		totalOut = totalOut.Add(f.Outflow)
	}
	if totalIn.String() != "1200000" {
		t.Fatalf("expected inflows to sum to 1200000, got %s", totalIn.String())
	}
	if totalOut.String() != "600000" {
		t.Fatalf("expected outflows to sum to 600000, got %s", totalOut.String())
	}
	if flows[11].Cumulative.String() != "600000" {
		t.Fatalf("expected final cumulative 600000, got %s", flows[11].Cumulative.String())
	}
}

func TestMapFinanceRecord_LedgerRoundTripsToTotals(t *testing.T) {
	ledger := []LedgerItem{
		{Category: LedgerCategoryRevenue, SubCategory: SubCategoryAcademicFeeRevenue, Head: "Tuition Fee", Amount: d("450000")},
		{Category: LedgerCategoryRevenue, SubCategory: SubCategoryOtherRevenue, Head: "Hall Rent", Amount: d("50000")},
		{Category: LedgerCategoryExpenses, SubCategory: SubCategoryStaffCosts, Head: "Salary Staff", Amount: d("300000")},
		{Category: LedgerCategoryExpenses, SubCategory: SubCategoryUtilities, Head: "Electricity", Amount: d("45000")},
	}
	record := MapFinanceRecord(FinanceMapInput{
		Revenue:  d("500000"),
		Expenses: d("345000"),
		Ledger:   ledger,
	})

	revenue := decimal.Zero
	expenses := decimal.Zero
	for _, item := range record.Financials.DetailedExpenses {
		switch item.Category {
		case LedgerCategoryRevenue:
			revenue = revenue.Add(item.Amount)
		case LedgerCategoryExpenses:
			expenses = expenses.Add(item.Amount)
		}
	}
	if !revenue.Equal(record.Financials.Revenue) {
		t.Fatalf("ledger revenue %s does not reconcile with total %s", revenue, record.Financials.Revenue)
	}
	if !expenses.Equal(record.Financials.Expenses) {
		t.Fatalf("ledger expenses %s do not reconcile with total %s", expenses, record.Financials.Expenses)
	}
	if record.Financials.CostBreakdown.AcademicSalaries.String() != "300000" {
		t.Fatalf("expected salaries 300000, got %s", record.Financials.CostBreakdown.AcademicSalaries.String())
	}
	if record.Financials.CostBreakdown.Miscellaneous.String() != "45000" {
		t.Fatalf("expected miscellaneous 45000, got %s", record.Financials.CostBreakdown.Miscellaneous.String())
	}
}
