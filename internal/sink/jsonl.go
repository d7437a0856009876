package sink

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/law-makers/reviewcrawl/pkg/models"
)

// JSONLSink writes one JSON object per row
type JSONLSink struct {
	file *os.File
	enc  *json.Encoder
}

// NewJSONLSink opens path for writing rows as JSON lines
func NewJSONLSink(path string, appendRows bool) (*JSONLSink, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if appendRows {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("open jsonl output: %w", err)
	}

	enc := json.NewEncoder(file)
	enc.SetEscapeHTML(false)
	return &JSONLSink{file: file, enc: enc}, nil
}

// WriteRow appends one row
func (s *JSONLSink) WriteRow(row models.ReviewRow) error {
	return s.enc.Encode(row)
}

// Close closes the file
func (s *JSONLSink) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
