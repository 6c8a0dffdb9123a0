// Package extract turns uploaded documents into plain text. Classification is
// by declared media type first and file extension second; the binary formats
// (PDF, DOCX) are handled by parser collaborators behind the Parser interface.
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// minTextLength is the minimum trimmed extraction length considered usable.
// Anything shorter is indistinguishable from a scanned/image-only document.
const minTextLength = 10

var (
	// ErrUnsupportedFileType is returned before any parsing when neither the
	// media type nor the extension identifies a supported format.
	ErrUnsupportedFileType = errors.New("unsupported file type: please upload a PDF, DOCX, or TXT file")

	// ErrEmptyDocument is returned when extraction succeeds but yields no
	// usable text, e.g. an image-only PDF.
	ErrEmptyDocument = errors.New("no readable text content found in document")

	// ErrExtractionFailed wraps parser errors so callers never see a raw
	// internal failure.
	ErrExtractionFailed = errors.New("failed to extract text from document")
)

// Parser extracts plain text from one binary document format.
type Parser interface {
	Parse(ctx context.Context, data []byte) (string, error)
}

type fileKind int

const (
	kindUnknown fileKind = iota
	kindText
	kindPDF
	kindDocx
)

// Extractor dispatches uploads to the right extraction path.
type Extractor struct {
	pdf  Parser
	docx Parser
}

// New returns an Extractor backed by the default PDF and DOCX parsers.
func New() *Extractor {
	return &Extractor{pdf: pdfParser{}, docx: docxParser{}}
}

// NewWithParsers returns an Extractor with injected parsers.
func NewWithParsers(pdf, docx Parser) *Extractor {
	return &Extractor{pdf: pdf, docx: docx}
}

// Extract returns the cleaned text content of the uploaded file, or one of
// the package's typed errors.
func (e *Extractor) Extract(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch classify(contentType, filename) {
	case kindText:
		text = string(data)
	case kindPDF:
		text, err = e.pdf.Parse(ctx, data)
	case kindDocx:
		text, err = e.docx.Parse(ctx, data)
	default:
		return "", fmt.Errorf("%w (got %q)", ErrUnsupportedFileType, filename)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	text = CleanText(text)
	if len(text) < minTextLength {
		return "", ErrEmptyDocument
	}
	return text, nil
}

func classify(contentType, filename string) fileKind {
	switch contentType {
	case "text/plain":
		return kindText
	case "application/pdf":
		return kindPDF
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return kindDocx
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md":
		return kindText
	case ".pdf":
		return kindPDF
	case ".docx":
		return kindDocx
	}
	return kindUnknown
}

// CleanText collapses all runs of whitespace to single spaces and trims the
// result, matching how extracted text is fed to the generation prompts.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
