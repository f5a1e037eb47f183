package reports

import (
	"context"
	"fmt"
	"sort"

	"bitbucket.org/darshanedu/insight_backend/models"
	"github.com/shopspring/decimal"
)

// ReportScope selects which records a dashboard read covers. Empty
// BranchName means all branches; empty Wing means all wings of the
// branch. Year bounds are inclusive, in canonical "YYYY-YY" form.
type ReportScope struct {
	BranchName string `form:"branch" json:"branch"`
	Wing       string `form:"wing" json:"wing"`
	FromYear   string `form:"fromYear" json:"fromYear"`
	ToYear     string `form:"toYear" json:"toYear"`
}

// AggregateTotals sums flow metrics across every matched record and
// snapshot metrics only across the latest fiscal year present, since
// summing a balance-sheet figure over multiple years double-counts it.
type AggregateTotals struct {
	Revenue     decimal.Decimal `json:"revenue"`
	Expenses    decimal.Decimal `json:"expenses"`
	Surplus     decimal.Decimal `json:"surplus"`
	Admissions  int             `json:"admissions"`
	Withdrawals int             `json:"withdrawals"`
	Concessions decimal.Decimal `json:"concessions"`
	CapEx       decimal.Decimal `json:"capEx"`

	RevenueBreakdown models.RevenueBreakdown `json:"revenueBreakdown"`

	SnapshotYear    string          `json:"snapshotYear"`
	Enrollment      int             `json:"enrollment"`
	Capacity        int             `json:"capacity"`
	CashBalance     decimal.Decimal `json:"cashBalance"`
	MonthlyBurnRate decimal.Decimal `json:"monthlyBurnRate"`
	AssetValue      decimal.Decimal `json:"assetValue"`
}

// TrendPoint is one fiscal year's rollup in a time series.
type TrendPoint struct {
	FiscalYear string          `json:"year"`
	Revenue    decimal.Decimal `json:"revenue"`
	Expenses   decimal.Decimal `json:"expenses"`
	Surplus    decimal.Decimal `json:"surplus"`
	Enrollment int             `json:"enrollment"`
}

// LedgerGroup is one grouped slice of the flattened ledger.
type LedgerGroup struct {
	Key    string          `json:"key"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// BranchSummary is the compact per-branch context handed to the
// narrative layer: revenue in crores, surplus and concessions in lakhs.
type BranchSummary struct {
	Name         string  `json:"name"`
	RevenueCr    string  `json:"revenueCr"`
	SurplusL     string  `json:"surplusL"`
	Enrollment   int     `json:"enrollment"`
	ConcessionsL string  `json:"concessionsL"`
	StaffCostPct float64 `json:"staffCostPct"`
	RiskLevel    string  `json:"riskLevel"`
	HealthScore  int     `json:"healthScore"`
}

type DashboardReport struct {
	Scope         ReportScope                `json:"scope"`
	Totals        AggregateTotals            `json:"totals"`
	Trend         []TrendPoint               `json:"trend"`
	BySubCategory []LedgerGroup              `json:"bySubCategory"`
	ByHead        []LedgerGroup              `json:"byHead"`
	Branches      []BranchSummary            `json:"branches"`
	Records       []models.PerformanceRecord `json:"records"`
}

// DedupeLatest keeps the newest record per (name, wing, year, type)
// scope, discarding older duplicates.
func DedupeLatest(records []models.PerformanceRecord) []models.PerformanceRecord {
	sorted := make([]models.PerformanceRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp > sorted[j].Timestamp
	})
	seen := map[string]bool{}
	result := make([]models.PerformanceRecord, 0, len(sorted))
	for i := range sorted {
		key := sorted[i].DedupeKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, sorted[i])
	}
	return result
}

// FilterRecords applies the scope. Year comparison is lexicographic,
// which is safe because all years share the canonical "YYYY-YY" form.
func FilterRecords(records []models.PerformanceRecord, scope ReportScope) []models.PerformanceRecord {
	result := make([]models.PerformanceRecord, 0, len(records))
	for _, r := range records {
		if scope.BranchName != "" && r.BranchName != scope.BranchName {
			continue
		}
		if scope.Wing != "" && r.Wing != scope.Wing {
			continue
		}
		if scope.FromYear != "" && r.FiscalYear < scope.FromYear {
			continue
		}
		if scope.ToYear != "" && r.FiscalYear > scope.ToYear {
			continue
		}
		result = append(result, r)
	}
	return result
}

// AggregateRecords rolls matched records up into dashboard totals.
func AggregateRecords(records []models.PerformanceRecord) AggregateTotals {
	var totals AggregateTotals

	latestYear := ""
	for _, r := range records {
		if r.FiscalYear > latestYear {
			latestYear = r.FiscalYear
		}
	}
	totals.SnapshotYear = latestYear

	for _, r := range records {
		totals.Revenue = totals.Revenue.Add(r.Financials.Revenue)
		totals.Expenses = totals.Expenses.Add(r.Financials.Expenses)
		totals.Surplus = totals.Surplus.Add(r.Financials.Surplus)
		totals.Admissions += r.Academics.Admissions
		totals.Withdrawals += r.Academics.Withdrawals
		totals.Concessions = totals.Concessions.Add(r.Concessions)
		totals.CapEx = totals.CapEx.Add(r.Financials.CapEx)

		b := r.Financials.RevenueBreakdown
		totals.RevenueBreakdown.Tuition = totals.RevenueBreakdown.Tuition.Add(b.Tuition)
		totals.RevenueBreakdown.Transport = totals.RevenueBreakdown.Transport.Add(b.Transport)
		totals.RevenueBreakdown.Hostel = totals.RevenueBreakdown.Hostel.Add(b.Hostel)
		totals.RevenueBreakdown.Activities = totals.RevenueBreakdown.Activities.Add(b.Activities)
		totals.RevenueBreakdown.Miscellaneous = totals.RevenueBreakdown.Miscellaneous.Add(b.Miscellaneous)

		if r.FiscalYear == latestYear {
			totals.Enrollment += r.Academics.Enrollment
			totals.Capacity += r.Academics.Capacity
			totals.CashBalance = totals.CashBalance.Add(r.Financials.CashBalance)
			totals.MonthlyBurnRate = totals.MonthlyBurnRate.Add(r.Financials.MonthlyBurnRate)
			totals.AssetValue = totals.AssetValue.Add(r.Financials.AssetValue)
		}
	}
	return totals
}

// TrendSeries groups matched records by fiscal year, summing per year,
// sorted ascending by year string.
func TrendSeries(records []models.PerformanceRecord) []TrendPoint {
	byYear := map[string]*TrendPoint{}
	for _, r := range records {
		point, ok := byYear[r.FiscalYear]
		if !ok {
			point = &TrendPoint{FiscalYear: r.FiscalYear}
			byYear[r.FiscalYear] = point
		}
		point.Revenue = point.Revenue.Add(r.Financials.Revenue)
		point.Expenses = point.Expenses.Add(r.Financials.Expenses)
		point.Surplus = point.Surplus.Add(r.Financials.Surplus)
		point.Enrollment += r.Academics.Enrollment
	}

	series := make([]TrendPoint, 0, len(byYear))
	for _, point := range byYear {
		series = append(series, *point)
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].FiscalYear < series[j].FiscalYear
	})
	return series
}

// FlattenLedger concatenates the per-record ledgers of every matched
// record, preserving record order.
func FlattenLedger(records []models.PerformanceRecord) []models.LedgerItem {
	var items []models.LedgerItem
	for _, r := range records {
		items = append(items, r.Financials.DetailedExpenses...)
	}
	return items
}

func GroupBySubCategory(items []models.LedgerItem) []LedgerGroup {
	return groupLedger(items, func(item models.LedgerItem) string { return item.SubCategory })
}

func GroupByHead(items []models.LedgerItem) []LedgerGroup {
	return groupLedger(items, func(item models.LedgerItem) string { return item.Head })
}

func groupLedger(items []models.LedgerItem, keyOf func(models.LedgerItem) string) []LedgerGroup {
	byKey := map[string]*LedgerGroup{}
	for _, item := range items {
		key := keyOf(item)
		group, ok := byKey[key]
		if !ok {
			group = &LedgerGroup{Key: key}
			byKey[key] = group
		}
		group.Amount = group.Amount.Add(item.Amount)
		group.Count++
	}
	groups := make([]LedgerGroup, 0, len(byKey))
	for _, group := range byKey {
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool {
		if !groups[i].Amount.Equal(groups[j].Amount) {
			return groups[i].Amount.GreaterThan(groups[j].Amount)
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}

var (
	crore = decimal.NewFromInt(10000000)
	lakh  = decimal.NewFromInt(100000)
)

// BuildBranchSummaries condenses matched records per branch for the
// narrative layer. Figures use Indian units: crores for revenue, lakhs
// for surplus and concessions.
func BuildBranchSummaries(records []models.PerformanceRecord) []BranchSummary {
	type rollup struct {
		revenue     decimal.Decimal
		surplus     decimal.Decimal
		concessions decimal.Decimal
		staffCosts  decimal.Decimal
		enrollment  int
		risk        models.RiskLevel
		health      int
	}
	byBranch := map[string]*rollup{}
	for _, r := range records {
		agg, ok := byBranch[r.BranchName]
		if !ok {
			agg = &rollup{risk: r.RiskLevel, health: r.HealthScore}
			byBranch[r.BranchName] = agg
		}
		agg.revenue = agg.revenue.Add(r.Financials.Revenue)
		agg.surplus = agg.surplus.Add(r.Financials.Surplus)
		agg.concessions = agg.concessions.Add(r.Concessions)
		agg.enrollment += r.Academics.Enrollment
		if r.RiskLevel == models.RiskLevelHigh || r.RiskLevel == models.RiskLevelCritical {
			agg.risk = r.RiskLevel
		}
		if r.HealthScore < agg.health {
			agg.health = r.HealthScore
		}
		for _, item := range r.Financials.DetailedExpenses {
			if item.SubCategory == models.SubCategoryStaffCosts {
				agg.staffCosts = agg.staffCosts.Add(item.Amount)
			}
		}
	}

	summaries := make([]BranchSummary, 0, len(byBranch))
	for name, agg := range byBranch {
		// Staff cost is quoted as a share of revenue, not of expenses.
		staffPct := 0.0
		if agg.revenue.IsPositive() {
			staffPct, _ = agg.staffCosts.Div(agg.revenue).Mul(decimal.NewFromInt(100)).Round(1).Float64()
		}
		summaries = append(summaries, BranchSummary{
			Name:         name,
			RevenueCr:    fmt.Sprintf("%s Cr", agg.revenue.Div(crore).Round(2)),
			SurplusL:     fmt.Sprintf("%s L", agg.surplus.Div(lakh).Round(2)),
			Enrollment:   agg.enrollment,
			ConcessionsL: fmt.Sprintf("%s L", agg.concessions.Div(lakh).Round(2)),
			StaffCostPct: staffPct,
			RiskLevel:    string(agg.risk),
			HealthScore:  agg.health,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries
}

// BuildDashboardReport is the read path: fetch everything, dedupe to
// the latest record per scope, filter, aggregate. Recomputed fully on
// every read; the redis cache only shortcuts repeat reads.
func BuildDashboardReport(ctx context.Context, scope ReportScope) (*DashboardReport, error) {
	if cached, ok := getCachedReport(scope); ok {
		return cached, nil
	}

	all, err := models.FetchAllRecords(ctx)
	if err != nil {
		return nil, err
	}
	matched := FilterRecords(DedupeLatest(all), scope)
	ledger := FlattenLedger(matched)

	report := &DashboardReport{
		Scope:         scope,
		Totals:        AggregateRecords(matched),
		Trend:         TrendSeries(matched),
		BySubCategory: GroupBySubCategory(ledger),
		ByHead:        GroupByHead(ledger),
		Branches:      BuildBranchSummaries(matched),
		Records:       matched,
	}
	setCachedReport(scope, report)
	return report, nil
}
