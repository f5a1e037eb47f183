package models

import (
	"context"
	"regexp"
	"strings"

	"bitbucket.org/darshanedu/insight_backend/utils"
	"github.com/shopspring/decimal"
)

// StagedItem is one editable row of the manual ledger worksheet. The
// worksheet is the full editing surface for a scope: saving it replaces
// the scope's record wholesale.
type StagedItem struct {
	Category    LedgerCategory  `json:"category" binding:"required"`
	SubCategory string          `json:"subCategory"`
	Head        string          `json:"head" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
}

var transportHeadRe = regexp.MustCompile(`(?i)transport|bus`)

const (
	legacyRevenueHead = "Total Revenue (Brought Forward)"
	legacyAssetsHead  = "Total Assets (Brought Forward)"
)

// ParseWorksheetText converts pasted ledger text into staged items for
// the given category, classifying each line's sub-category from its
// label and section header.
func ParseWorksheetText(text string, category LedgerCategory) []StagedItem {
	lines := ParseTextToItems(text)
	items := make([]StagedItem, 0, len(lines))
	for _, line := range lines {
		var subCategory string
		switch category {
		case LedgerCategoryRevenue, LedgerCategoryExpenses:
			subCategory = DetectSubCategory(category, line.Label)
		default:
			// Assets and liabilities have no rule table; the pasted
			// section header is the only grouping available.
			override := ""
			if line.Category != "General" {
				override = line.Category
			}
			subCategory = ResolveSubCategory(category, "", override)
		}
		items = append(items, StagedItem{
			Category:    category,
			SubCategory: subCategory,
			Head:        line.Label,
			Amount:      line.Value,
		})
	}
	return items
}

// SaveManualWorksheet builds a fresh Finance record from the staged
// worksheet and persists it, taking the scope lock so two editors do not
// interleave writes for the same branch slice.
func SaveManualWorksheet(ctx context.Context, scope UploadScope, items []StagedItem) (PerformanceRecord, error) {
	scope.FiscalYear = utils.NormalizeFiscalYear(scope.FiscalYear)
	scope.RecordType = RecordTypeFinance

	release, err := utils.ScopeLock(ctx, scopeKey(scope), "manualIngest", "SaveManualWorksheet")
	if err != nil {
		return PerformanceRecord{}, err
	}
	defer release()

	record := buildWorksheetRecord(scope, items)
	if err := UpsertRecords(ctx, []PerformanceRecord{record}); err != nil {
		return PerformanceRecord{}, err
	}
	return record, nil
}

func scopeKey(scope UploadScope) string {
	return strings.Join([]string{scope.BranchName, scope.Wing, scope.FiscalYear, string(scope.RecordType)}, "|")
}

func buildWorksheetRecord(scope UploadScope, items []StagedItem) PerformanceRecord {
	revenue := decimal.Zero
	expenses := decimal.Zero
	assets := decimal.Zero
	liabilities := decimal.Zero
	ledger := make([]LedgerItem, 0, len(items))

	for _, item := range items {
		head := utils.CleanText(item.Head)
		if head == "" {
			continue
		}
		subCategory := ResolveSubCategory(item.Category, head, item.SubCategory)
		switch item.Category {
		case LedgerCategoryRevenue:
			revenue = revenue.Add(item.Amount)
		case LedgerCategoryExpenses, LedgerCategoryDirectExpense:
			expenses = expenses.Add(item.Amount)
		case LedgerCategoryAssets:
			assets = assets.Add(item.Amount)
		case LedgerCategoryLiabilities:
			liabilities = liabilities.Add(item.Amount)
		}
		ledger = append(ledger, LedgerItem{
			Category:    item.Category,
			SubCategory: subCategory,
			Head:        head,
			Amount:      item.Amount,
		})
	}

	breakdown := deriveRevenueBreakdown(ledger)
	return MapFinanceRecord(FinanceMapInput{
		BranchName:       scope.BranchName,
		Wing:             scope.Wing,
		FiscalYear:       scope.FiscalYear,
		FileName:         scope.FileName,
		Revenue:          revenue,
		Expenses:         expenses,
		Assets:           assets,
		Liabilities:      liabilities,
		Ledger:           ledger,
		RevenueBreakdown: &breakdown,
	})
}

// deriveRevenueBreakdown splits the classified revenue lines into the
// fixed breakdown fields. Transport is carved out of the fee bucket by
// head keyword; financial and other operating income both land in
// miscellaneous.
func deriveRevenueBreakdown(ledger []LedgerItem) RevenueBreakdown {
	var breakdown RevenueBreakdown
	for _, item := range ledger {
		if item.Category != LedgerCategoryRevenue {
			continue
		}
		switch item.SubCategory {
		case SubCategoryAcademicFeeRevenue:
			if transportHeadRe.MatchString(item.Head) {
				breakdown.Transport = breakdown.Transport.Add(item.Amount)
			} else {
				breakdown.Tuition = breakdown.Tuition.Add(item.Amount)
			}
		case SubCategoryFinancialIncome, SubCategoryOtherRevenue:
			breakdown.Miscellaneous = breakdown.Miscellaneous.Add(item.Amount)
		default:
			breakdown.Miscellaneous = breakdown.Miscellaneous.Add(item.Amount)
		}
	}
	return breakdown
}

// LoadWorksheet stages the latest stored record for a scope back into
// editable items. Records written before per-line ledgers existed carry
// only totals; the difference shows up as synthetic brought-forward
// lines so the worksheet still reconciles with the stored totals.
func LoadWorksheet(ctx context.Context, scope UploadScope) ([]StagedItem, error) {
	scope.FiscalYear = utils.NormalizeFiscalYear(scope.FiscalYear)
	records, err := FetchRecordsForScope(ctx, scope.BranchName, scope.Wing, scope.FiscalYear, RecordTypeFinance)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []StagedItem{}, nil
	}
	latest := records[len(records)-1]

	items := make([]StagedItem, 0, len(latest.Financials.DetailedExpenses))
	ledgerRevenue := decimal.Zero
	ledgerAssets := decimal.Zero
	for _, item := range latest.Financials.DetailedExpenses {
		if item.Category == LedgerCategoryRevenue {
			ledgerRevenue = ledgerRevenue.Add(item.Amount)
		}
		if item.Category == LedgerCategoryAssets {
			ledgerAssets = ledgerAssets.Add(item.Amount)
		}
		items = append(items, StagedItem{
			Category:    item.Category,
			SubCategory: item.SubCategory,
			Head:        item.Head,
			Amount:      item.Amount,
		})
	}

	if carry := latest.Financials.Revenue.Sub(ledgerRevenue); carry.IsPositive() {
		items = append(items, StagedItem{
			Category:    LedgerCategoryRevenue,
			SubCategory: SubCategoryOtherRevenue,
			Head:        legacyRevenueHead,
			Amount:      carry,
		})
	}
	if carry := latest.Financials.AssetValue.Sub(ledgerAssets); carry.IsPositive() {
		items = append(items, StagedItem{
			Category:    LedgerCategoryAssets,
			SubCategory: SubCategoryUncategorizedLedger,
			Head:        legacyAssetsHead,
			Amount:      carry,
		})
	}
	return items, nil
}
