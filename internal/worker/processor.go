package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"risgen/internal/providers"
	"risgen/internal/ris"
)

// OutputExt is the extension of generated citation files.
const OutputExt = ".ris"

// Extractor is the document-to-text collaborator. A failed extraction is
// not fatal; the pipeline degrades to filename-only mode.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// ProcessorConfig configures a Processor.
type ProcessorConfig struct {
	Extractor    Extractor
	Client       providers.Client
	SkipExisting bool
	Logger       *slog.Logger

	// Backoff overrides the retry delay schedule (tests).
	Backoff BackoffFunc
}

// Processor runs one work item through the full per-document state machine:
// skip-check, extraction, inference with retry, validation, encoding,
// persistence. Items are fully isolated; a failure here never affects other
// items.
type Processor struct {
	extractor    Extractor
	client       providers.Client
	skipExisting bool
	logger       *slog.Logger
	backoff      BackoffFunc
}

// NewProcessor creates a new processor.
func NewProcessor(cfg ProcessorConfig) (*Processor, error) {
	if cfg.Extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	if cfg.Client == nil {
		return nil, fmt.Errorf("inference client is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	backoff := cfg.Backoff
	if backoff == nil {
		backoff = defaultBackoff
	}
	return &Processor{
		extractor:    cfg.Extractor,
		client:       cfg.Client,
		skipExisting: cfg.SkipExisting,
		logger:       logger.With("component", "processor"),
		backoff:      backoff,
	}, nil
}

// OutputPath returns the citation file path for a document: a sibling with
// the same base name and the .ris extension.
func OutputPath(docPath string) string {
	return strings.TrimSuffix(docPath, filepath.Ext(docPath)) + OutputExt
}

// Process resolves one work item to exactly one outcome.
func (p *Processor) Process(ctx context.Context, item WorkItem) Outcome {
	base := filepath.Base(item.Path)
	log := p.logger.With("file", base)

	outPath := OutputPath(item.Path)
	if p.skipExisting {
		if _, err := os.Stat(outPath); err == nil {
			log.Debug("output exists, skipping")
			return Outcome{File: base, Kind: OutcomeSkipped}
		}
	}

	text, err := p.extractor.Extract(ctx, item.Path)
	if err != nil {
		log.Warn("text extraction failed, falling back to filename-only mode", "error", err)
		text = ""
	}
	filenameOnly := strings.TrimSpace(text) == ""

	rec, err := p.infer(ctx, &providers.InferRequest{
		Text:         text,
		Filename:     base,
		FilenameOnly: filenameOnly,
	})
	if err != nil {
		code := classifyFailure(err)
		log.Warn("inference failed", "code", code, "error", err)
		return Outcome{File: base, Kind: OutcomeFailed, Code: code, Reason: err.Error()}
	}

	// A record with neither title nor author is unusable.
	if !rec.Usable() {
		code := CodeAINull
		if filenameOnly {
			code = CodeOCRRequired
		}
		return Outcome{File: base, Kind: OutcomeFailed, Code: code, Reason: "record has no title or authors"}
	}

	kind := OutcomeSuccess
	if filenameOnly {
		// A filename-only record needs at least a title; authors and year
		// may legitimately be missing, but then the output is tagged so the
		// reader knows which fields went unverified.
		if rec.Title.IsZero() {
			return Outcome{File: base, Kind: OutcomeFailed, Code: CodeOCRRequired, Reason: "filename yielded no title"}
		}
		rec.Note.Value = ocrRescueNote(rec)
		kind = OutcomeFilenameOnly
	}

	content := ris.Encode(rec)
	if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
		log.Warn("writing citation file failed", "path", outPath, "error", err)
		return Outcome{File: base, Kind: OutcomeFailed, Code: CodeWriteFailed, Reason: err.Error()}
	}

	log.Debug("citation written", "path", outPath, "kind", kind)
	return Outcome{File: base, Kind: kind}
}

// ocrRescueNote builds the N1 note for a filename-only success, listing the
// fields that could not be verified.
func ocrRescueNote(rec *ris.Record) string {
	var missing []string
	if !rec.Authors.NonEmpty() {
		missing = append(missing, "AU")
	}
	if rec.Year.IsZero() {
		missing = append(missing, "PY")
	}

	note := "OCR_REQUIRED"
	if len(missing) > 0 {
		note += fmt.Sprintf(" (CHECK: %s missing)", strings.Join(missing, ","))
	}
	return note
}
