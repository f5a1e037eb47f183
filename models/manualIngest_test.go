package models

import "testing"

func TestBuildWorksheetRecord_TotalsAndRevenueBreakdown(t *testing.T) {
	items := []StagedItem{
		{Category: LedgerCategoryRevenue, Head: "Tuition Fee", Amount: d("450000")},
		{Category: LedgerCategoryRevenue, Head: "Bus Fee", Amount: d("50000")},
		{Category: LedgerCategoryRevenue, Head: "Interest on FDR", Amount: d("10000")},
		{Category: LedgerCategoryExpenses, Head: "Salary Staff", Amount: d("300000")},
		{Category: LedgerCategoryAssets, Head: "Building", Amount: d("9000000")},
		{Category: LedgerCategoryLiabilities, Head: "Loan", Amount: d("1000000")},
		{Category: LedgerCategoryExpenses, Head: "   ", Amount: d("999")},
	}
	record := buildWorksheetRecord(UploadScope{
		BranchName: "Darshan Academy [Delhi]",
		Wing:       "Main Wing",
		FiscalYear: "2023-24",
	}, items)

	if record.Financials.Revenue.String() != "510000" {
		t.Fatalf("expected revenue 510000, got %s", record.Financials.Revenue.String())
	}
	if record.Financials.Expenses.String() != "300000" {
		t.Fatalf("expected expenses 300000, got %s", record.Financials.Expenses.String())
	}
	if record.Financials.AssetValue.String() != "9000000" {
		t.Fatalf("expected assets 9000000, got %s", record.Financials.AssetValue.String())
	}
	if record.Financials.LiabilitiesValue.String() != "1000000" {
		t.Fatalf("expected liabilities 1000000, got %s", record.Financials.LiabilitiesValue.String())
	}
	if len(record.Financials.DetailedExpenses) != 6 {
		t.Fatalf("expected the blank head to be dropped, got %d items", len(record.Financials.DetailedExpenses))
	}

	b := record.Financials.RevenueBreakdown
	if b.Tuition.String() != "450000" {
		t.Fatalf("expected tuition 450000, got %s", b.Tuition.String())
	}
	// Transport is carved out of the fee bucket by head keyword.
	if b.Transport.String() != "50000" {
		t.Fatalf("expected transport 50000, got %s", b.Transport.String())
	}
	if b.Miscellaneous.String() != "10000" {
		t.Fatalf("expected miscellaneous 10000, got %s", b.Miscellaneous.String())
	}
}

func TestParseWorksheetText_ClassifiesEachLine(t *testing.T) {
	items := ParseWorksheetText("Salary Staff 300000\nElectricity 45000\n", LedgerCategoryExpenses)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].SubCategory != SubCategoryStaffCosts {
		t.Fatalf("expected %q, got %q", SubCategoryStaffCosts, items[0].SubCategory)
	}
	if items[1].SubCategory != SubCategoryUtilities {
		t.Fatalf("expected %q, got %q", SubCategoryUtilities, items[1].SubCategory)
	}
}

func TestParseWorksheetText_AssetsUseTheSectionHeader(t *testing.T) {
	items := ParseWorksheetText("Fixed Deposits\nFDR No 1\t500000\n", LedgerCategoryAssets)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].SubCategory != "Fixed Deposits" {
		t.Fatalf("expected the section header, got %q", items[0].SubCategory)
	}
}
