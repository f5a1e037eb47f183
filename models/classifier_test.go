package models

import "testing"

func TestDetectSubCategory_ExpenseBuckets(t *testing.T) {
	cases := []struct {
		head     string
		expected string
	}{
		{"Salary - Teaching Staff", SubCategoryStaffCosts},
		{"Provident Fund Contribution", SubCategoryStaffCosts},
		{"Electricity Bill", SubCategoryUtilities},
		{"Generator Diesel", SubCategoryUtilities},
		{"Audit Fees", SubCategoryProfessional},
		{"Building Repair", SubCategoryMaintenance},
		{"Library Books", SubCategoryAcademicActivities},
		{"Annual Day Celebration", SubCategoryStudentWelfare},
		{"Printing & Stationery", SubCategoryAdministrative},
		{"Security Guard Charges", SubCategorySecurity},
		{"Bus Hire Charges", SubCategoryTransport},
		{"Advertisement Expenses", SubCategoryContingency},
		{"Random Unmatched Label", SubCategoryContingency},
	}
	for _, tc := range cases {
		if got := DetectSubCategory(LedgerCategoryExpenses, tc.head); got != tc.expected {
			t.Fatalf("DetectSubCategory(Expenses, %q) expected %q, got %q", tc.head, tc.expected, got)
		}
	}
}

func TestDetectSubCategory_RevenueBuckets(t *testing.T) {
	cases := []struct {
		head     string
		expected string
	}{
		{"Tuition Fee Q1", SubCategoryAcademicFeeRevenue},
		{"Late Fine Collection", SubCategoryAcademicFeeRevenue},
		{"Interest on FDR", SubCategoryFinancialIncome},
		{"Hall Rent", SubCategoryOtherRevenue},
	}
	for _, tc := range cases {
		if got := DetectSubCategory(LedgerCategoryRevenue, tc.head); got != tc.expected {
			t.Fatalf("DetectSubCategory(Revenue, %q) expected %q, got %q", tc.head, tc.expected, got)
		}
	}
}

func TestDetectSubCategory_OrderedRulesFirstMatchWins(t *testing.T) {
	// "Staff Welfare Printing" matches both the staff and office buckets;
	// the staff rule comes first.
	if got := DetectSubCategory(LedgerCategoryExpenses, "Staff Welfare Printing"); got != SubCategoryStaffCosts {
		t.Fatalf("expected %q, got %q", SubCategoryStaffCosts, got)
	}
}

func TestDetectSubCategory_IsIdempotent(t *testing.T) {
	first := DetectSubCategory(LedgerCategoryExpenses, "Telephone Charges")
	second := DetectSubCategory(LedgerCategoryExpenses, "Telephone Charges")
	if first != second {
		t.Fatalf("classifier is not stable: %q vs %q", first, second)
	}
}

func TestResolveSubCategory(t *testing.T) {
	if got := ResolveSubCategory(LedgerCategoryAssets, "", "Fixed Deposits"); got != "Fixed Deposits" {
		t.Fatalf("expected the override, got %q", got)
	}
	if got := ResolveSubCategory(LedgerCategoryAssets, "", ""); got != SubCategoryUncategorizedLedger {
		t.Fatalf("expected %q, got %q", SubCategoryUncategorizedLedger, got)
	}
	if got := ResolveSubCategory(LedgerCategoryExpenses, "Water Charges", ""); got != SubCategoryUtilities {
		t.Fatalf("expected %q, got %q", SubCategoryUtilities, got)
	}
}
