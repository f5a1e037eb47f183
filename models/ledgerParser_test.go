package models

import "testing"

func TestParseTextToItems_HeaderLinesSetTheRunningCategory(t *testing.T) {
	text := "Revenue\n" +
		"Tuition Fee    450000\n" +
		"Transport Fee    50000\n" +
		"Expenses\n" +
		"Salary Staff    300000\n"

	items := ParseTextToItems(text)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d: %+v", len(items), items)
	}

	expected := []ParsedLedgerLine{
		{Label: "Tuition Fee", Category: "Revenue"},
		{Label: "Transport Fee", Category: "Revenue"},
		{Label: "Salary Staff", Category: "Expenses"},
	}
	values := []string{"450000", "50000", "300000"}
	for i, want := range expected {
		got := items[i]
		if got.Label != want.Label || got.Category != want.Category {
			t.Fatalf("item %d expected %q in %q, got %q in %q", i, want.Label, want.Category, got.Label, got.Category)
		}
		if got.Value.String() != values[i] {
			t.Fatalf("item %d expected value %s, got %s", i, values[i], got.Value.String())
		}
	}
}

func TestParseTextToItems_TabDelimitedTakesFirstNumericField(t *testing.T) {
	items := ParseTextToItems("Electricity Bill\t\t45,000\nWater Charges\t12000\n")
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Label != "Electricity Bill" || items[0].Value.String() != "45000" {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[1].Value.String() != "12000" {
		t.Fatalf("unexpected second item: %+v", items[1])
	}
}

func TestParseTextToItems_TrailingHyphenIsExplicitZero(t *testing.T) {
	items := ParseTextToItems("Late Fee Fine   -\n")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if !items[0].Value.IsZero() {
		t.Fatalf("expected zero value, got %s", items[0].Value.String())
	}
	if items[0].Label != "Late Fee Fine" {
		t.Fatalf("expected label Late Fee Fine, got %q", items[0].Label)
	}
}

func TestParseTextToItems_SummaryLinesWithoutAmountsAreDropped(t *testing.T) {
	items := ParseTextToItems("Revenue\nTuition Fee 450000\nGrand Total\nSurplus\n")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d: %+v", len(items), items)
	}
	// Neither summary line may become the running category.
	if items[0].Category != "Revenue" {
		t.Fatalf("expected category Revenue, got %q", items[0].Category)
	}
}

func TestParseTextToItems_SignedTrailingAmount(t *testing.T) {
	items := ParseTextToItems("Fee Refund -5,000\n")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Value.String() != "-5000" {
		t.Fatalf("expected -5000, got %s", items[0].Value.String())
	}
}

func TestParseTextToItems_BlankLinesAndNumberingAreIgnored(t *testing.T) {
	items := ParseTextToItems("\n\nTo Salary Staff 300000\n\n12. Electricity 45000\n")
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Label != "Salary Staff" {
		t.Fatalf("expected cleaned label, got %q", items[0].Label)
	}
	if items[1].Label != "Electricity" {
		t.Fatalf("expected cleaned label, got %q", items[1].Label)
	}
}
