// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext turns report PDFs into raw text with pluggable backends.
// Callers only see text or an error wrapping ErrReadFailed; backends must
// never let a decoding failure escape any other way.
package pdftext

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/share-tracker/internal/container"
	"github.com/pdiddy/share-tracker/pkg/types"
)

var (
	// ErrReadFailed wraps every failure to obtain text from a document.
	ErrReadFailed = errors.New("document read failed")

	// ErrEmptyText reports a document that decoded to whitespace only.
	ErrEmptyText = errors.New("document has no text layer")
)

// Extractor converts one document into its raw text.
type Extractor interface {
	// Extract reads the document at path and returns its text.
	Extract(path string) (string, error)
}

// New returns the extractor for backend. The markitdown backend uses the
// named container runtime (docker or podman; empty detects one) and checks
// that its image is present.
func New(backend types.ExtractorBackend, runtime string) (Extractor, error) {
	switch backend {
	case types.BackendPDF, "":
		return &PDFExtractor{}, nil
	case types.BackendMarkitdown:
		rt, err := container.Select(runtime)
		if err != nil {
			return nil, err
		}
		return NewMarkitdownExtractor(rt)
	default:
		return nil, fmt.Errorf("unsupported extractor backend %q: use pdf or markitdown", backend)
	}
}

// Read calls ext and normalizes the outcome: any backend error, or text that
// is blank, comes back wrapped in ErrReadFailed.
func Read(ext Extractor, path string) (string, error) {
	text, err := ext.Extract(path)
	if err != nil {
		if errors.Is(err, ErrReadFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: %s: %w", ErrReadFailed, path, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s: %w", ErrReadFailed, path, ErrEmptyText)
	}
	return text, nil
}
