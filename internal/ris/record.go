// Package ris models AI-extracted bibliographic records and encodes them
// into the RIS reference file format.
package ris

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Confidence is the trust label an extraction model assigns to a field value.
type Confidence string

const (
	ConfidenceHigh     Confidence = "high"
	ConfidenceMedium   Confidence = "medium"
	ConfidenceLow      Confidence = "low"
	ConfidenceConflict Confidence = "conflict"
)

// Suffix returns the uncertainty marker appended to free-text values.
func (c Confidence) Suffix() string {
	switch c {
	case ConfidenceMedium:
		return "?"
	case ConfidenceLow:
		return "??"
	case ConfidenceConflict:
		return "???"
	default:
		return ""
	}
}

// FieldValue is one extracted field with its confidence and supporting
// evidence. An empty Value means "not found" and is never emitted.
type FieldValue struct {
	Value      string     `json:"value"`
	Confidence Confidence `json:"confidence,omitempty"`
	Evidence   []string   `json:"evidence,omitempty"`
}

// IsZero reports whether the field holds no usable value.
func (f FieldValue) IsZero() bool {
	return strings.TrimSpace(f.Value) == ""
}

// AuthorList is the AU field. Models occasionally return a single object
// instead of an array; unmarshalling wraps it into a one-element list.
type AuthorList []FieldValue

// UnmarshalJSON accepts either a JSON array or a single field object.
func (a *AuthorList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*a = nil
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var list []FieldValue
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("decoding author list: %w", err)
		}
		*a = list
		return nil
	}
	var single FieldValue
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("decoding author object: %w", err)
	}
	*a = AuthorList{single}
	return nil
}

// NonEmpty reports whether at least one author has a usable value.
func (a AuthorList) NonEmpty() bool {
	for _, au := range a {
		if !au.IsZero() {
			return true
		}
	}
	return false
}

// Record is one extracted bibliographic reference. Field names follow the
// RIS tags they encode to.
type Record struct {
	Type           FieldValue `json:"TY"`
	Title          FieldValue `json:"TI"`
	Authors        AuthorList `json:"AU"`
	Year           FieldValue `json:"PY"`
	Journal        FieldValue `json:"JO"`
	BookTitle      FieldValue `json:"BT"`
	StartPage      FieldValue `json:"SP"`
	EndPage        FieldValue `json:"EP"`
	DOI            FieldValue `json:"DO"`
	Publisher      FieldValue `json:"PB"`
	City           FieldValue `json:"CY"`
	SerialNumber   FieldValue `json:"SN"`
	SecondaryTitle FieldValue `json:"T2"`
	URL            FieldValue `json:"UR"`
	Language       FieldValue `json:"LA"`
	Volume         FieldValue `json:"VL"`
	Issue          FieldValue `json:"IS"`
	Note           FieldValue `json:"N1"`
}

// Usable reports whether the record carries enough identity to be worth
// writing: a non-empty title or at least one non-empty author.
func (r *Record) Usable() bool {
	return !r.Title.IsZero() || r.Authors.NonEmpty()
}

// referenceTypes is the allowed TY enum.
var referenceTypes = map[string]struct{}{
	"JOUR": {},
	"CONF": {},
	"CHAP": {},
	"BOOK": {},
	"THES": {},
	"GEN":  {},
}

// normalizeType resolves the TY value to one of the six allowed reference
// types. An absent/empty value defaults to JOUR; a present-but-invalid value
// falls back to GEN so the output stays parseable.
func normalizeType(f FieldValue) string {
	v := strings.TrimSpace(f.Value)
	if v == "" {
		return "JOUR"
	}
	if _, ok := referenceTypes[v]; ok {
		return v
	}
	return "GEN"
}
