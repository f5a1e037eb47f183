package models

import "sort"

// SchoolWings maps every branch to its wings. Branch names double as
// record scope keys, so the catalog is the source of truth for valid
// ingestion targets.
var SchoolWings = map[string][]string{
	"Darshan Academy [Ambala]":                  {"Main Wing", "Nur Wing"},
	"Darshan Academy [Amritsar]":                {"Main Wing"},
	"Darshan Academy [Bhubaneswar]":             {"Main Wing"},
	"Darshan Academy [Dasuya]":                  {"Main Wing", "Nur Wing"},
	"Darshan Academy [Delhi]":                   {"Main Wing", "Nur Wing"},
	"Darshan Academy [Devlali]":                 {"Main Wing", "Nur Wing"},
	"Darshan Academy [Ferozepur]":               {"Main Wing"},
	"Darshan Academy [Hisar]":                   {"Main Wing", "Nur Wing"},
	"Darshan Academy [Jagdishpura]":             {"Main Wing"},
	"Darshan Academy [Jalandhar (Basti Nau)]":   {"Junior Wing"},
	"Darshan Academy [Jalandhar (Kala singha)]": {"Main Wing", "Nur Wing"},
	"Darshan Academy [Kaithal]":                 {"Main Wing", "Nur Wing"},
	"Darshan Academy [Kalka]":                   {"Main Wing", "Nur Wing"},
	"Darshan Academy [Lucknow]":                 {"Main Wing", "Nur Wing"},
	"Darshan Academy [Ludhiana]":                {"Main Wing", "Nur Wing"},
	"Darshan Academy [Meerut]":                  {"Main Wing", "Nur Wing"},
	"Darshan Academy [Modasa]":                  {"Main Wing"},
	"Darshan Academy [Pune]":                    {"Main Wing", "Nur Wing"},
	"Darshan Academy [Rathonda]":                {"Main Wing"},
	"Darshan Academy [Sundargarh]":              {"Main Wing", "Nur Wing"},
	"Darshan Vidhayalaya [Gulleria Bhatt]":      {"Main Wing"},
	"Darshan Vidhayalaya [Bigas]":               {"Main Wing"},
	"Darshan Vidhayalaya [Jansath]":             {"Main Wing"},
	"Darshan Academy [International]":           {"Main Wing"},
	"Darshan Academy [Cali]":                    {"Main Wing"},
}

// AvailableYears lists the fiscal years the ingestion surfaces accept.
var AvailableYears = []string{
	"2020-21", "2021-22", "2022-23", "2023-24", "2024-25",
	"2025-26", "2026-27", "2027-28", "2028-29", "2029-30",
}

func BranchNames() []string {
	names := make([]string, 0, len(SchoolWings))
	for name := range SchoolWings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func WingsForBranch(branchName string) []string {
	if wings, ok := SchoolWings[branchName]; ok {
		return wings
	}
	return []string{"Main Wing"}
}

func IsKnownBranch(branchName string) bool {
	_, ok := SchoolWings[branchName]
	return ok
}
