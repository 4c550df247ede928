package ris

import (
	"strings"
	"testing"
)

func TestEncode_FullRecord(t *testing.T) {
	rec := &Record{
		Type:  FieldValue{Value: "JOUR"},
		Title: FieldValue{Value: "Test Title"},
		Authors: AuthorList{
			{Value: "Doe, John"},
			{Value: "Smith, Jane"},
		},
		Year:      FieldValue{Value: "2023"},
		Journal:   FieldValue{Value: "Journal of Testing"},
		StartPage: FieldValue{Value: "10"},
		EndPage:   FieldValue{Value: "20"},
		DOI:       FieldValue{Value: "10.1234/test"},
		Note:      FieldValue{Value: "Some notes"},
	}

	expected := strings.Join([]string{
		"TY  - JOUR",
		"TI  - Test Title",
		"AU  - Doe, John",
		"AU  - Smith, Jane",
		"PY  - 2023",
		"JO  - Journal of Testing",
		"SP  - 10",
		"EP  - 20",
		"DO  - 10.1234/test",
		"N1  - Some notes",
		"ER  - ",
		"",
	}, "\n")

	if got := Encode(rec); got != expected {
		t.Errorf("Encode() mismatch:\ngot:\n%s\nwant:\n%s", got, expected)
	}
}

func TestEncode_InvalidTypeAndYear(t *testing.T) {
	rec := &Record{
		Type:    FieldValue{Value: "invalid"},
		Title:   FieldValue{Value: "Foo"},
		Authors: AuthorList{{Value: "Doe, J", Confidence: ConfidenceMedium}},
		Year:    FieldValue{Value: "abc"},
	}

	expected := strings.Join([]string{
		"TY  - GEN",
		"TI  - Foo",
		"AU  - Doe, J?",
		"N1  - CHECK: PY missing/uncertain",
		"ER  - ",
		"",
	}, "\n")

	if got := Encode(rec); got != expected {
		t.Errorf("Encode() mismatch:\ngot:\n%s\nwant:\n%s", got, expected)
	}
}

func TestEncode_TypeDefaults(t *testing.T) {
	tests := []struct {
		name string
		ty   FieldValue
		want string
	}{
		{"absent defaults to JOUR", FieldValue{}, "TY  - JOUR"},
		{"whitespace defaults to JOUR", FieldValue{Value: "   "}, "TY  - JOUR"},
		{"valid kept", FieldValue{Value: "THES"}, "TY  - THES"},
		{"invalid falls back to GEN", FieldValue{Value: "ARTICLE"}, "TY  - GEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(&Record{Type: tt.ty})
			first := strings.SplitN(got, "\n", 2)[0]
			if first != tt.want {
				t.Errorf("first line = %q, want %q", first, tt.want)
			}
		})
	}
}

func TestEncode_ConfidenceSuffixes(t *testing.T) {
	tests := []struct {
		conf Confidence
		want string
	}{
		{ConfidenceHigh, "TI  - Foo"},
		{"", "TI  - Foo"},
		{ConfidenceMedium, "TI  - Foo?"},
		{ConfidenceLow, "TI  - Foo??"},
		{ConfidenceConflict, "TI  - Foo???"},
	}

	for _, tt := range tests {
		rec := &Record{Title: FieldValue{Value: "Foo", Confidence: tt.conf}}
		out := Encode(rec)
		if !strings.Contains(out, tt.want+"\n") {
			t.Errorf("confidence %q: output %q missing line %q", tt.conf, out, tt.want)
		}
	}
}

func TestEncode_TypedValidatorsDropBadValues(t *testing.T) {
	rec := &Record{
		Title:     FieldValue{Value: "Foo"},
		StartPage: FieldValue{Value: "12a"},
		EndPage:   FieldValue{Value: "ix"},
		DOI:       FieldValue{Value: "not-a-doi"},
		URL:       FieldValue{Value: "ftp://example.org"},
	}
	out := Encode(rec)

	for _, tag := range []string{"SP  -", "EP  -", "DO  -", "UR  -"} {
		if strings.Contains(out, tag) {
			t.Errorf("output should not contain %q line: %s", tag, out)
		}
	}
}

func TestEncode_TypedPassthroughFields(t *testing.T) {
	rec := &Record{
		Title:        FieldValue{Value: "Foo"},
		Volume:       FieldValue{Value: "XII"},
		Issue:        FieldValue{Value: "3-4"},
		SerialNumber: FieldValue{Value: "978-0-123"},
		Language:     FieldValue{Value: "ja"},
	}
	out := Encode(rec)

	for _, line := range []string{"VL  - XII", "IS  - 3-4", "SN  - 978-0-123", "LA  - ja"} {
		if !strings.Contains(out, line+"\n") {
			t.Errorf("output missing %q: %s", line, out)
		}
	}
}

func TestEncode_SuffixNeverOnTypedFields(t *testing.T) {
	rec := &Record{
		Year:      FieldValue{Value: "2021", Confidence: ConfidenceLow},
		StartPage: FieldValue{Value: "5", Confidence: ConfidenceConflict},
	}
	out := Encode(rec)

	if !strings.Contains(out, "PY  - 2021\n") {
		t.Errorf("PY should be emitted without suffix: %s", out)
	}
	if !strings.Contains(out, "SP  - 5\n") {
		t.Errorf("SP should be emitted without suffix: %s", out)
	}
}

func TestEncode_Deterministic(t *testing.T) {
	rec := &Record{
		Type:    FieldValue{Value: "CONF"},
		Title:   FieldValue{Value: "Repeatable", Confidence: ConfidenceMedium},
		Authors: AuthorList{{Value: "One, A"}, {Value: "Two, B", Confidence: ConfidenceLow}},
		Year:    FieldValue{Value: "1999"},
	}

	first := Encode(rec)
	for i := 0; i < 10; i++ {
		if got := Encode(rec); got != first {
			t.Fatalf("Encode() not deterministic on iteration %d", i)
		}
	}
}

func TestEncode_TerminatorAndTrailingLine(t *testing.T) {
	out := Encode(&Record{})
	if !strings.HasSuffix(out, "ER  - \n") {
		t.Errorf("output should end with terminator and empty line, got %q", out)
	}
}
