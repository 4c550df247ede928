package providers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"risgen/internal/ris"
)

// recordSchema is the canonical output contract for extraction responses.
// Every model response is validated against it before decoding, regardless
// of which provider produced it.
const recordSchema = `{
  "type": "object",
  "properties": {
    "TY": {"$ref": "#/$defs/field"},
    "TI": {"$ref": "#/$defs/field"},
    "AU": {
      "anyOf": [
        {"type": "array", "items": {"$ref": "#/$defs/field"}},
        {"$ref": "#/$defs/field"}
      ]
    },
    "PY": {"$ref": "#/$defs/field"},
    "JO": {"$ref": "#/$defs/field"},
    "BT": {"$ref": "#/$defs/field"},
    "SP": {"$ref": "#/$defs/field"},
    "EP": {"$ref": "#/$defs/field"},
    "DO": {"$ref": "#/$defs/field"},
    "PB": {"$ref": "#/$defs/field"},
    "CY": {"$ref": "#/$defs/field"},
    "SN": {"$ref": "#/$defs/field"},
    "T2": {"$ref": "#/$defs/field"},
    "UR": {"$ref": "#/$defs/field"},
    "LA": {"$ref": "#/$defs/field"},
    "VL": {"$ref": "#/$defs/field"},
    "IS": {"$ref": "#/$defs/field"},
    "N1": {"$ref": "#/$defs/field"}
  },
  "$defs": {
    "field": {
      "type": "object",
      "properties": {
        "value": {"type": "string"},
        "confidence": {"type": "string", "enum": ["high", "medium", "low", "conflict"]},
        "evidence": {"type": "array", "items": {"type": "string"}}
      },
      "required": ["value"]
    }
  }
}`

var compiledRecordSchema = mustCompileRecordSchema()

func mustCompileRecordSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("record.json", strings.NewReader(recordSchema)); err != nil {
		panic(fmt.Sprintf("loading record schema: %v", err))
	}
	return compiler.MustCompile("record.json")
}

// decodeRecord turns raw model output into a Record. It tolerates markdown
// code fences, treats a JSON null answer as (nil, nil), and classifies
// anything unparseable or schema-violating as a malformed response.
func decodeRecord(content string) (*ris.Record, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, &Error{Kind: KindEmptyResponse, Message: "model returned no content"}
	}

	raw := stripCodeFences(content)
	if raw == "null" {
		return nil, nil
	}

	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &Error{Kind: KindMalformedResponse, Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if doc == nil {
		return nil, nil
	}

	if err := compiledRecordSchema.Validate(doc); err != nil {
		return nil, &Error{Kind: KindMalformedResponse, Message: fmt.Sprintf("schema violation: %v", err)}
	}

	var rec ris.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, &Error{Kind: KindMalformedResponse, Message: fmt.Sprintf("decoding record: %v", err)}
	}
	return &rec, nil
}

// stripCodeFences removes a surrounding markdown fence if present.
func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return trimmed
	}
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
