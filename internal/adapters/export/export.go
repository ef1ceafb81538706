// Package export encodes a finished report into downloadable files.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sohrab4u/consultation/internal/domain/report"
	"github.com/sohrab4u/consultation/pkg/metrics"
)

// Supported formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// BaseName is the file name every export shares, before the extension.
const BaseName = "consultation_completion_report"

// DefaultTitle heads the document exports.
const DefaultTitle = "eSanjeevani Teleconsultation Report"

// Document is everything an encoder may render.
type Document struct {
	RunID       string
	Title       string
	GeneratedAt time.Time
	Rows        []report.Row
	Summary     report.Summary
	Warnings    []string
	// FailureLimit caps the duration failure messages shown; 0 shows all.
	FailureLimit int
}

// Encoder writes a Document in one format.
type Encoder interface {
	Format() string
	Encode(w io.Writer, doc *Document) error
}

// Formats lists the supported formats in their default order.
func Formats() []string {
	return []string{FormatCSV, FormatXLSX, FormatPDF, FormatJSON}
}

// ByName returns the encoder for a format name.
func ByName(format string) (Encoder, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCSV:
		return CSV{}, nil
	case FormatXLSX:
		return XLSX{}, nil
	case FormatPDF:
		return PDF{}, nil
	case FormatJSON:
		return JSON{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// FileName returns the output file name for a format.
func FileName(format string) string {
	return BaseName + "." + format
}

// WriteFile encodes doc into dir and returns the written path. The file
// appears only once encoding has succeeded.
func WriteFile(ctx context.Context, dir string, enc Encoder, doc *Document) (string, error) {
	format := enc.Format()
	if err := ctx.Err(); err != nil {
		return "", err
	}

	start := time.Now()
	path := filepath.Join(dir, FileName(format))
	tmp, err := os.CreateTemp(dir, "."+FileName(format)+".*")
	if err != nil {
		metrics.RecordExportError(format)
		return "", fmt.Errorf("create %s export: %w", format, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after rename

	cw := &countingWriter{w: tmp}
	if err := enc.Encode(cw, doc); err != nil {
		_ = tmp.Close()
		metrics.RecordExportError(format)
		return "", fmt.Errorf("%w: %s: %w", ErrEncode, format, err)
	}
	if err := tmp.Close(); err != nil {
		metrics.RecordExportError(format)
		return "", fmt.Errorf("close %s export: %w", format, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		metrics.RecordExportError(format)
		return "", fmt.Errorf("move %s export into place: %w", format, err)
	}

	metrics.RecordExport(format, cw.n, float64(time.Since(start).Microseconds())/1000)
	return path, nil
}

type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}

func title(doc *Document) string {
	if doc.Title != "" {
		return doc.Title
	}
	return DefaultTitle
}
