package utils

import (
	"encoding/csv"
	"strings"
)

// WriteDelimited renders tabular data as delimited text with a header row.
// Values containing the delimiter are quoted by the csv writer.
func WriteDelimited(headers []string, rows [][]string) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(headers); err != nil {
		return "", err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return b.String(), nil
}
