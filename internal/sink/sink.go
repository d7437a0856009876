// Package sink persists review rows as they are found.
package sink

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/law-makers/reviewcrawl/pkg/models"
)

// Sink is an append-only row writer. Rows are durable once WriteRow returns,
// except for formats that document their own save points.
type Sink interface {
	WriteRow(row models.ReviewRow) error
	Close() error
}

// Format identifies an output file format
type Format string

const (
	FormatCSV   Format = "csv"
	FormatXLSX  Format = "xlsx"
	FormatJSONL Format = "jsonl"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatJSONL, "json":
		return FormatJSONL, nil
	default:
		return "", fmt.Errorf("unknown output format %q (must be csv, xlsx or jsonl)", s)
	}
}

// FormatFromPath guesses the format from a file extension, defaulting to CSV
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX
	case ".jsonl", ".ndjson", ".json":
		return FormatJSONL
	default:
		return FormatCSV
	}
}

// Open creates the sink for path. When appendRows is set an existing file is
// extended instead of replaced and its header is not repeated.
func Open(path string, format Format, appendRows bool) (Sink, error) {
	if format == "" {
		format = FormatFromPath(path)
	}

	switch format {
	case FormatCSV:
		return NewCSVSink(path, appendRows)
	case FormatXLSX:
		return NewXLSXSink(path, appendRows)
	case FormatJSONL:
		return NewJSONLSink(path, appendRows)
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}
