package models

import (
	"regexp"
	"strings"

	"bitbucket.org/darshanedu/insight_backend/utils"
	"github.com/shopspring/decimal"
)

// ParsedLedgerLine is one item recovered from pasted ledger text.
type ParsedLedgerLine struct {
	Label    string
	Value    decimal.Decimal
	Category string
}

var (
	trailingAmountRe = regexp.MustCompile(`(.*?)\s+([-]?[\d,.]+\.?\d*)$`)
	hyphenAmountRe   = regexp.MustCompile(`(.*?)\s+-\s*$`)
	summaryHeaderRe  = regexp.MustCompile(`(?i)total|surplus|deficit|grand|net`)
)

// ParseTextToItems recovers {label, value, category} items from pasted
// ledger text. Tab-delimited lines take the first numeric-looking field
// as the amount; loosely spaced lines take a trailing numeric token, and
// a trailing bare hyphen is an explicit zero. A line with a label but no
// amount becomes the running category header for following items, unless
// it reads like a summary line (total/surplus/deficit/grand/net), in
// which case it is dropped. The absence of a trailing amount is the only
// signal separating section titles from data rows.
func ParseTextToItems(text string) []ParsedLedgerLine {
	var items []ParsedLedgerLine
	currentCategory := "General"

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		label, value := splitLedgerLine(line)
		if label == "" {
			continue
		}
		if value == nil {
			if !summaryHeaderRe.MatchString(label) {
				currentCategory = label
			}
			continue
		}
		items = append(items, ParsedLedgerLine{
			Label:    label,
			Value:    *value,
			Category: currentCategory,
		})
	}
	return items
}

// splitLedgerLine returns the cleaned label and the parsed amount, or a
// nil amount when the line carries none.
func splitLedgerLine(line string) (string, *decimal.Decimal) {
	if strings.Contains(line, "\t") {
		fields := strings.Split(line, "\t")
		label := utils.CleanText(fields[0])
		for _, field := range fields[1:] {
			if utils.IsNumericCell(field) {
				v := utils.ParseAmount(field)
				return label, &v
			}
		}
		return label, nil
	}

	if m := hyphenAmountRe.FindStringSubmatch(line); m != nil {
		v := decimal.Zero
		return utils.CleanText(m[1]), &v
	}
	if m := trailingAmountRe.FindStringSubmatch(line); m != nil {
		label := utils.CleanText(m[1])
		if label != "" {
			v := utils.ParseAmount(m[2])
			return label, &v
		}
	}
	return utils.CleanText(line), nil
}
