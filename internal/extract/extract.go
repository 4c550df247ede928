// Package extract pulls text out of PDF documents for inference context.
// Only the first and last few pages are extracted; bibliographic metadata
// lives at the edges of a document, and the inference context is bounded
// anyway.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

const (
	defaultHeadPages = 2
	defaultTailPages = 4
)

// Config configures a PDFExtractor.
type Config struct {
	HeadPages int // pages taken from the front (default 2)
	TailPages int // pages taken from the back (default 4)
	Logger    *slog.Logger
}

// PDFExtractor extracts head/tail page text from PDFs using pdftotext
// (poppler-utils), with pdfcpu for page accounting.
type PDFExtractor struct {
	headPages int
	tailPages int
	logger    *slog.Logger
}

// NewPDFExtractor creates a new extractor.
func NewPDFExtractor(cfg Config) *PDFExtractor {
	if cfg.HeadPages <= 0 {
		cfg.HeadPages = defaultHeadPages
	}
	if cfg.TailPages <= 0 {
		cfg.TailPages = defaultTailPages
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{
		headPages: cfg.HeadPages,
		tailPages: cfg.TailPages,
		logger:    logger.With("component", "extract"),
	}
}

// Extract returns the concatenated text of the selected pages, each prefixed
// with a page marker. A page that fails to extract contributes only a
// failure marker; a document that cannot be opened at all returns an error,
// which callers treat as "no text".
func (e *PDFExtractor) Extract(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}
	pageCount, err := api.PageCount(f, nil)
	f.Close()
	if err != nil {
		return "", fmt.Errorf("reading PDF page count: %w", err)
	}
	if pageCount == 0 {
		return "", nil
	}

	var parts []string
	for _, page := range selectPages(pageCount, e.headPages, e.tailPages) {
		text, err := e.pageText(ctx, path, page)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			e.logger.Debug("page extraction failed", "path", path, "page", page, "error", err)
			parts = append(parts, fmt.Sprintf("--- Page %d (Extraction Failed) ---", page))
			continue
		}
		if strings.TrimSpace(text) != "" {
			parts = append(parts, fmt.Sprintf("--- Page %d ---", page), text)
		}
	}

	return strings.Join(parts, "\n"), nil
}

// pageText extracts a single page with pdftotext.
func (e *PDFExtractor) pageText(ctx context.Context, path string, page int) (string, error) {
	pageStr := strconv.Itoa(page)
	cmd := exec.CommandContext(ctx, "pdftotext",
		"-f", pageStr,
		"-l", pageStr,
		"-enc", "UTF-8",
		"-q",
		path,
		"-",
	)
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}
	return string(output), nil
}

// selectPages returns the 1-based page numbers to extract: the first head
// and last tail pages, deduplicated and in document order.
func selectPages(total, head, tail int) []int {
	selected := make(map[int]struct{})
	for p := 1; p <= head && p <= total; p++ {
		selected[p] = struct{}{}
	}
	start := total - tail + 1
	if start < 1 {
		start = 1
	}
	for p := start; p <= total; p++ {
		selected[p] = struct{}{}
	}

	pages := make([]int, 0, len(selected))
	for p := range selected {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}
