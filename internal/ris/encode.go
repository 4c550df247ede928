package ris

import (
	"regexp"
	"strings"
)

// Validators for typed fields. A typed value that fails its validator is
// dropped from the output rather than corrected; emitting machine-mangled
// numbers would be worse than omission.
var yearPattern = regexp.MustCompile(`^\d{4}$`)

func validYear(v string) bool { return yearPattern.MatchString(v) }

func validDigits(v string) bool {
	if v == "" {
		return false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func validDOI(v string) bool { return strings.Contains(v, "10.") }

func validURL(v string) bool { return strings.Contains(v, "http") }

// Encode renders a record as RIS text: tagged lines in fixed order, an
// "ER  - " terminator, and a trailing empty line. Pure and deterministic.
//
// Free-text fields (TI, AU, JO, T2, BT, PB, CY) carry confidence suffixes;
// typed fields (PY, SP, EP, VL, IS, DO, SN, UR, LA) are validated and never
// suffixed. Emission order is a compatibility contract with reference
// managers and must not change.
func Encode(r *Record) string {
	var lines []string

	addFree := func(tag string, f FieldValue) {
		val := strings.TrimSpace(f.Value)
		if val == "" {
			return
		}
		lines = append(lines, tag+"  - "+val+f.Confidence.Suffix())
	}

	addTyped := func(tag string, f FieldValue, valid func(string) bool) {
		val := strings.TrimSpace(f.Value)
		if val == "" {
			return
		}
		if valid != nil && !valid(val) {
			return
		}
		lines = append(lines, tag+"  - "+val)
	}

	// TY is always first and always present.
	lines = append(lines, "TY  - "+normalizeType(r.Type))

	addFree("TI", r.Title)
	for _, au := range r.Authors {
		addFree("AU", au)
	}

	// PY is the one typed field whose validation failure is visible: a
	// missing year materially degrades the citation, so flag it instead of
	// silently dropping it.
	if py := strings.TrimSpace(r.Year.Value); py != "" {
		if validYear(py) {
			lines = append(lines, "PY  - "+py)
		} else {
			lines = append(lines, "N1  - CHECK: PY missing/uncertain")
		}
	}

	addFree("JO", r.Journal)
	addFree("T2", r.SecondaryTitle)
	addFree("BT", r.BookTitle)

	addTyped("SP", r.StartPage, validDigits)
	addTyped("EP", r.EndPage, validDigits)
	addTyped("VL", r.Volume, nil)
	addTyped("IS", r.Issue, nil)
	addTyped("DO", r.DOI, validDOI)

	addFree("PB", r.Publisher)
	addFree("CY", r.City)

	addTyped("SN", r.SerialNumber, nil)
	addTyped("UR", r.URL, validURL)
	addTyped("LA", r.Language, nil)

	if note := strings.TrimSpace(r.Note.Value); note != "" {
		lines = append(lines, "N1  - "+note)
	}

	lines = append(lines, "ER  - ", "")
	return strings.Join(lines, "\n")
}
