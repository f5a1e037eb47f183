package utils

import "testing"

func TestWriteDelimited_QuotesValuesContainingTheDelimiter(t *testing.T) {
	out, err := WriteDelimited(
		[]string{"Head", "Amount"},
		[][]string{
			{"Salary, Teaching", "300000"},
			{"Electricity", "45000"},
		},
	)
	if err != nil {
		t.Fatalf("WriteDelimited error: %v", err)
	}
	expected := "Head,Amount\n\"Salary, Teaching\",300000\nElectricity,45000\n"
	if out != expected {
		t.Fatalf("WriteDelimited expected %q, got %q", expected, out)
	}
}
