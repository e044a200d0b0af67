// Package document pulls plain text out of user-supplied files.
package document

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DefaultLimit caps extracted text, in runes.
const DefaultLimit = 60_000

var (
	ErrUnsupported = errors.New("only PDF documents are supported")
	ErrNoText      = errors.New("document contains no extractable text")
)

var extraneousWhitespace = regexp.MustCompile(`\s+`)

// Text is extracted document content.
type Text struct {
	Name      string
	Body      string
	Truncated bool
}

// ExtractPDF returns the whitespace-collapsed text of the PDF at path, clipped
// to limit runes (DefaultLimit when limit <= 0).
func ExtractPDF(path string, limit int) (Text, error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return Text{}, fmt.Errorf("%s: %w", path, ErrUnsupported)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if _, err := os.Stat(path); err != nil {
		return Text{}, err
	}

	file, reader, err := pdf.Open(path)
	if err != nil {
		return Text{}, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return Text{}, fmt.Errorf("failed to extract pdf text: %w", err)
	}

	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return Text{}, err
	}

	body := strings.TrimSpace(extraneousWhitespace.ReplaceAllString(builder.String(), " "))
	if body == "" {
		return Text{}, fmt.Errorf("%s: %w", filepath.Base(path), ErrNoText)
	}
	out := Text{Name: filepath.Base(path), Body: body}
	if runes := []rune(body); len(runes) > limit {
		out.Body = string(runes[:limit])
		out.Truncated = true
	}
	return out, nil
}
