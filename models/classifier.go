package models

import (
	"regexp"
	"strings"
)

// Sub-category rules are ordered: the first matching bucket wins, so a
// head like "Staff Welfare Printing" lands in staff costs, not office
// expenses. Keep the order stable when adding keywords.

const (
	SubCategoryAcademicFeeRevenue  = "Academic & Student Fee Revenue"
	SubCategoryFinancialIncome     = "Financial & Investment Income"
	SubCategoryOtherRevenue        = "Other Operating Revenue"
	SubCategoryStaffCosts          = "Staff & Employee Costs"
	SubCategoryProfessional        = "Professional & Compliance Expenses"
	SubCategoryMaintenance         = "School Maintenance & Infrastructure"
	SubCategoryUtilities           = "Utilities & Essential Services"
	SubCategoryAcademicActivities  = "Academic & Educational Activities"
	SubCategoryStudentWelfare      = "Student Activities & Welfare"
	SubCategoryAdministrative      = "Administrative & Office Expenses"
	SubCategorySecurity            = "Security & Support Services"
	SubCategoryTransport           = "Transport & Vehicle Expenses"
	SubCategoryContingency         = "Contingency, Statutory & Other Expenses"
	SubCategoryUncategorizedLedger = "Uncategorized Ledger"
)

type subCategoryRule struct {
	pattern *regexp.Regexp
	bucket  string
}

var revenueRules = []subCategoryRule{
	{regexp.MustCompile(`(?i)fee|fine|annual charge|tuition|admission|academic|exam|registration`), SubCategoryAcademicFeeRevenue},
	{regexp.MustCompile(`(?i)interest|dividend|investment`), SubCategoryFinancialIncome},
}

var expenseRules = []subCategoryRule{
	{regexp.MustCompile(`(?i)salary|wage|provident|esi|medical|staff welfare|honorarium|bonus|gratuity|stipend`), SubCategoryStaffCosts},
	{regexp.MustCompile(`(?i)audit|professional|affiliation|legal|consultancy|inspection`), SubCategoryProfessional},
	{regexp.MustCompile(`(?i)school maintenance|building|furniture|civil|paint|whitewash|infrastructure|repair`), SubCategoryMaintenance},
	{regexp.MustCompile(`(?i)electricity|water|telephone|internet|broadband|wifi|power|fuel|generator|diesel|gas`), SubCategoryUtilities},
	{regexp.MustCompile(`(?i)workshop|seminar|science|smart class|newspaper|book|periodical|journal|library|educational`), SubCategoryAcademicActivities},
	{regexp.MustCompile(`(?i)activity|function|sport|game|festival|celebration|annual day|student welfare|scholarship|award|prize`), SubCategoryStudentWelfare},
	{regexp.MustCompile(`(?i)printing|stationery|postage|courier|subscription|membership|bank|office|rate`), SubCategoryAdministrative},
	{regexp.MustCompile(`(?i)security|garden|ground`), SubCategorySecurity},
	{regexp.MustCompile(`(?i)vehicle|insurance|travel|conveyance|transport|bus|hire charges`), SubCategoryTransport},
	{regexp.MustCompile(`(?i)advertisement|publicity|entertainment|tax|miscellaneous|misc|computer|electric equipment|depreciation|amortization`), SubCategoryContingency},
}

// DetectSubCategory buckets a ledger head under its category. Revenue
// heads that match no revenue rule fall to other operating revenue;
// expense heads that match nothing fall to the contingency bucket.
func DetectSubCategory(category LedgerCategory, head string) string {
	h := strings.TrimSpace(head)
	if category == LedgerCategoryRevenue {
		for _, rule := range revenueRules {
			if rule.pattern.MatchString(h) {
				return rule.bucket
			}
		}
		return SubCategoryOtherRevenue
	}
	for _, rule := range expenseRules {
		if rule.pattern.MatchString(h) {
			return rule.bucket
		}
	}
	return SubCategoryContingency
}

// ResolveSubCategory prefers a caller-supplied sub-category; a blank
// one is detected from the head, and a head that is itself blank gets
// the unclassified bucket.
func ResolveSubCategory(category LedgerCategory, head string, override string) string {
	if s := strings.TrimSpace(override); s != "" {
		return s
	}
	if strings.TrimSpace(head) == "" {
		return SubCategoryUncategorizedLedger
	}
	return DetectSubCategory(category, head)
}
