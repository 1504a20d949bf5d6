// Package pdftext extracts plain text from PDFs the backend has already
// stored on disk, for the inline preview in the paper detail overlay.
package pdftext

import (
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pkg/errors"
)

var extraneousWhitespace = regexp.MustCompile(`\s+`)

// Extract reads the PDF at path and returns its plain text, whitespace
// collapsed and clipped to limit runes.
func Extract(path string, limit int) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "open pdf")
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", errors.Wrap(err, "extract pdf text")
	}

	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return "", errors.Wrap(err, "read pdf text")
	}

	text := extraneousWhitespace.ReplaceAllString(strings.TrimSpace(builder.String()), " ")
	return Clip(text, limit), nil
}

// Clip truncates text to limit runes, marking the cut with an ellipsis.
// A non-positive limit disables clipping.
func Clip(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
