package reports

import (
	"testing"

	"bitbucket.org/darshanedu/insight_backend/models"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func financeRecord(id, branch, wing, year string, ts int64, revenue, expenses string) models.PerformanceRecord {
	rev := d(revenue)
	exp := d(expenses)
	return models.PerformanceRecord{
		ID:         id,
		Timestamp:  ts,
		BranchName: branch,
		Wing:       wing,
		FiscalYear: year,
		RecordType: models.RecordTypeFinance,
		Financials: models.FinancialData{
			Revenue:  rev,
			Expenses: exp,
			Surplus:  rev.Sub(exp),
		},
	}
}

func TestDedupeLatest_NewestTimestampWins(t *testing.T) {
	older := financeRecord("a", "Delhi", "Main Wing", "2023-24", 100, "1000", "800")
	newer := financeRecord("b", "Delhi", "Main Wing", "2023-24", 200, "2000", "800")
	other := financeRecord("c", "Delhi", "Nur Wing", "2023-24", 50, "500", "300")

	result := DedupeLatest([]models.PerformanceRecord{older, newer, other})
	if len(result) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result))
	}
	for _, r := range result {
		if r.ID == "a" {
			t.Fatalf("stale record survived deduplication")
		}
	}
}

func TestFilterRecords_YearRangeIsInclusiveLexicographic(t *testing.T) {
	records := []models.PerformanceRecord{
		financeRecord("a", "Delhi", "Main Wing", "2021-22", 1, "1", "0"),
		financeRecord("b", "Delhi", "Main Wing", "2022-23", 2, "1", "0"),
		financeRecord("c", "Delhi", "Main Wing", "2023-24", 3, "1", "0"),
		financeRecord("d", "Delhi", "Main Wing", "2024-25", 4, "1", "0"),
		financeRecord("e", "Delhi", "Main Wing", "2025-26", 5, "1", "0"),
	}
	scope := ReportScope{FromYear: "2022-23", ToYear: "2024-25"}
	result := FilterRecords(records, scope)
	if len(result) != 3 {
		t.Fatalf("expected 3 records, got %d", len(result))
	}
	for _, r := range result {
		if r.FiscalYear == "2021-22" || r.FiscalYear == "2025-26" {
			t.Fatalf("out-of-range year %s included", r.FiscalYear)
		}
	}
}

func TestFilterRecords_BranchAndWingScope(t *testing.T) {
	records := []models.PerformanceRecord{
		financeRecord("a", "Delhi", "Main Wing", "2023-24", 1, "1", "0"),
		financeRecord("b", "Delhi", "Nur Wing", "2023-24", 2, "1", "0"),
		financeRecord("c", "Pune", "Main Wing", "2023-24", 3, "1", "0"),
	}
	if got := len(FilterRecords(records, ReportScope{})); got != 3 {
		t.Fatalf("empty scope expected 3, got %d", got)
	}
	if got := len(FilterRecords(records, ReportScope{BranchName: "Delhi"})); got != 2 {
		t.Fatalf("branch scope expected 2, got %d", got)
	}
	if got := len(FilterRecords(records, ReportScope{BranchName: "Delhi", Wing: "Nur Wing"})); got != 1 {
		t.Fatalf("wing scope expected 1, got %d", got)
	}
}

func TestAggregateRecords_FlowsSumAcrossYearsSnapshotsOnlyLatest(t *testing.T) {
	r2023 := financeRecord("a", "Delhi", "Main Wing", "2023-24", 1, "1000", "600")
	r2023.Financials.CashBalance = d("500")
	r2023.Financials.AssetValue = d("9000")
	r2023.Academics.Enrollment = 100
	r2023.Academics.Capacity = 120

	r2024 := financeRecord("b", "Delhi", "Main Wing", "2024-25", 2, "1200", "700")
	r2024.Financials.CashBalance = d("800")
	r2024.Financials.AssetValue = d("9500")
	r2024.Academics.Enrollment = 110
	r2024.Academics.Capacity = 130

	totals := AggregateRecords([]models.PerformanceRecord{r2023, r2024})

	if totals.Revenue.String() != "2200" {
		t.Fatalf("expected summed revenue 2200, got %s", totals.Revenue.String())
	}
	if totals.Surplus.String() != "900" {
		t.Fatalf("expected summed surplus 900, got %s", totals.Surplus.String())
	}
	if totals.SnapshotYear != "2024-25" {
		t.Fatalf("expected snapshot year 2024-25, got %s", totals.SnapshotYear)
	}
	// Balance-sheet figures must not be summed across years.
	if totals.CashBalance.String() != "800" {
		t.Fatalf("expected latest-year cash 800, got %s", totals.CashBalance.String())
	}
	if totals.AssetValue.String() != "9500" {
		t.Fatalf("expected latest-year assets 9500, got %s", totals.AssetValue.String())
	}
	if totals.Enrollment != 110 || totals.Capacity != 130 {
		t.Fatalf("expected latest-year enrollment/capacity, got %d/%d", totals.Enrollment, totals.Capacity)
	}
}

func TestTrendSeries_GroupsByYearAscending(t *testing.T) {
	records := []models.PerformanceRecord{
		financeRecord("a", "Delhi", "Main Wing", "2024-25", 3, "1200", "700"),
		financeRecord("b", "Delhi", "Nur Wing", "2024-25", 2, "300", "100"),
		financeRecord("c", "Delhi", "Main Wing", "2023-24", 1, "1000", "600"),
	}
	series := TrendSeries(records)
	if len(series) != 2 {
		t.Fatalf("expected 2 points, got %d", len(series))
	}
	if series[0].FiscalYear != "2023-24" || series[1].FiscalYear != "2024-25" {
		t.Fatalf("expected ascending years, got %s then %s", series[0].FiscalYear, series[1].FiscalYear)
	}
	if series[1].Revenue.String() != "1500" {
		t.Fatalf("expected 2024-25 revenue 1500, got %s", series[1].Revenue.String())
	}
}

func TestGroupBySubCategory_SumsAndSortsByAmount(t *testing.T) {
	items := []models.LedgerItem{
		{Category: models.LedgerCategoryExpenses, SubCategory: models.SubCategoryStaffCosts, Head: "Salary", Amount: d("300")},
		{Category: models.LedgerCategoryExpenses, SubCategory: models.SubCategoryUtilities, Head: "Electricity", Amount: d("500")},
		{Category: models.LedgerCategoryExpenses, SubCategory: models.SubCategoryStaffCosts, Head: "Bonus", Amount: d("400")},
	}
	groups := GroupBySubCategory(items)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Key != models.SubCategoryStaffCosts || groups[0].Amount.String() != "700" {
		t.Fatalf("unexpected first group: %+v", groups[0])
	}
	if groups[0].Count != 2 {
		t.Fatalf("expected count 2, got %d", groups[0].Count)
	}
}

func TestBuildBranchSummaries_StaffCostPercentage(t *testing.T) {
	r := financeRecord("a", "Darshan Academy [Delhi]", "Main Wing", "2023-24", 1, "10000000", "8000000")
	r.Financials.DetailedExpenses = []models.LedgerItem{
		{Category: models.LedgerCategoryExpenses, SubCategory: models.SubCategoryStaffCosts, Head: "Salary", Amount: d("4000000")},
		{Category: models.LedgerCategoryExpenses, SubCategory: models.SubCategoryUtilities, Head: "Power", Amount: d("4000000")},
	}
	r.Academics.Enrollment = 900

	summaries := BuildBranchSummaries([]models.PerformanceRecord{r})
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	s := summaries[0]
	if s.RevenueCr != "1 Cr" {
		t.Fatalf("expected revenue 1 Cr, got %q", s.RevenueCr)
	}
	if s.SurplusL != "20 L" {
		t.Fatalf("expected surplus 20 L, got %q", s.SurplusL)
	}
	// 4000000 staff costs against 10000000 revenue, not against expenses.
	if s.StaffCostPct != 40 {
		t.Fatalf("expected staff cost 40%%, got %v", s.StaffCostPct)
	}
	if s.Enrollment != 900 {
		t.Fatalf("expected enrollment 900, got %d", s.Enrollment)
	}
}
