package utils

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	currencyNoiseRe = regexp.MustCompile(`[₹$€£\s,]`)
	boilerplateRe   = regexp.MustCompile(`(?i)^(to|by|total)\s+`)
	numberingRe     = regexp.MustCompile(`^[\s\d.>-]+`)
	fiscalYearRe    = regexp.MustCompile(`(\d{4})[-/](\d{2,4})`)
)

// ParseAmount converts a raw ledger cell into a decimal amount.
// Accepts parenthesized negatives, currency symbols (₹ $ € £),
// whitespace and thousands separators. Anything unparseable resolves
// to zero: corrupt cells must never abort an ingestion.
func ParseAmount(raw string) decimal.Decimal {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return decimal.Zero
	}
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		cleaned = "-" + cleaned[1:len(cleaned)-1]
	}
	cleaned = currencyNoiseRe.ReplaceAllString(cleaned, "")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// IsNumericCell reports whether a raw cell looks like an amount once
// currency noise is stripped. A lone "-" counts (ledgers use it for zero).
func IsNumericCell(raw string) bool {
	cleaned := currencyNoiseRe.ReplaceAllString(strings.TrimSpace(raw), "")
	if cleaned == "-" {
		return true
	}
	if cleaned == "" {
		return false
	}
	_, err := decimal.NewFromString(cleaned)
	return err == nil
}

// CleanText strips ledger boilerplate from a label: a leading
// "To"/"By"/"Total" token and any leading numbering artifacts
// (digits, periods, hyphens, ">").
func CleanText(raw string) string {
	t := strings.TrimSpace(raw)
	t = strings.TrimSpace(boilerplateRe.ReplaceAllString(t, ""))
	t = strings.TrimSpace(numberingRe.ReplaceAllString(t, ""))
	return t
}

// NormalizeFiscalYear canonicalizes "2023-2024" / "2023/24" style inputs
// to the "YYYY-YY" form every stored record uses. Inputs that do not
// look like a fiscal year pass through unchanged.
func NormalizeFiscalYear(year string) string {
	m := fiscalYearRe.FindStringSubmatch(year)
	if m == nil {
		return year
	}
	start, end := m[1], m[2]
	if len(end) == 4 {
		end = end[2:]
	}
	return start + "-" + end
}

// ProcessValidationErrors flattens binding validation failures into a
// field-to-rule map for the error response.
func ProcessValidationErrors(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"request": err.Error()}
	}
	errorResponse := make(map[string]string)
	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}
	return errorResponse
}

// DereferencePtr safely dereferences a pointer of type T; nil returns the
// zero value or an optional default.
func DereferencePtr[T any](ptr *T, defaults ...T) T {
	var defaultValue T
	if len(defaults) > 0 {
		defaultValue = defaults[0]
	}
	if ptr == nil {
		return defaultValue
	}
	return *ptr
}

// UniqueSlice returns the slice with duplicate elements removed,
// preserving first-seen order.
func UniqueSlice[T comparable](slice []T) []T {
	inResult := make(map[T]bool)
	var result []T
	for _, elm := range slice {
		if _, ok := inResult[elm]; !ok {
			inResult[elm] = true
			result = append(result, elm)
		}
	}
	return result
}
