package providers

import (
	"fmt"
	"strings"
)

// maxContextChars bounds how much extracted text is sent per request.
const maxContextChars = 20000

const systemPrompt = `You are a bibliographic data extractor. You return ONLY a JSON object
matching the requested structure, with no markdown and no commentary.
Every field is an object {"value","confidence","evidence"}; AU is an array
of such objects. If nothing at all can be extracted, return JSON null.`

const normalInstruction = `Extract bibliographic metadata from the text and filename.

UNCERTAINTY RULES:
- Assign 'confidence' (high/medium/low/conflict) to every field.
- 'high': matches text exactly.
- 'medium': inferred or minor typo fix.
- 'low': guessed, or from filename only where the text is messy.
- 'conflict': text and filename contradict each other.

FIELD RULES:
- TY: one of JOUR, CONF, CHAP, BOOK, THES, GEN.
- PY: year only (YYYY).
- DO: DOI format only (e.g. 10.xxxx/...).
- AU: list all authors as "Last, First".
- Do NOT invent facts. If a field is not found, set 'value' to an empty string.`

const filenameOnlyInstruction = `CRITICAL: the extracted text was empty. Infer metadata ONLY from the
filename.
- If the filename contains a title or author, extract it.
- If you are unsure, leave the field value empty.
- Do NOT hallucinate. Low confidence is expected; set 'confidence' to
  'low' or 'medium' for most fields.`

// buildUserPrompt assembles the user message for a request, truncating the
// document text to the context limit.
func buildUserPrompt(req *InferRequest) string {
	if req.FilenameOnly {
		return fmt.Sprintf("%s\n\nFilename: %s", filenameOnlyInstruction, req.Filename)
	}

	text := req.Text
	if len(text) > maxContextChars {
		text = text[:maxContextChars]
	}
	var b strings.Builder
	b.WriteString(normalInstruction)
	b.WriteString("\n\nFilename: ")
	b.WriteString(req.Filename)
	b.WriteString("\n\nInput Text (first/last pages):\n")
	b.WriteString(text)
	return b.String()
}
