package sink

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/law-makers/reviewcrawl/pkg/models"
)

// CSVSink writes rows to a UTF-8 CSV file, flushing after every row so that
// an interrupted run keeps everything written so far.
type CSVSink struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVSink opens path for writing. The header is written only when the
// file starts out empty.
func NewCSVSink(path string, appendRows bool) (*CSVSink, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if appendRows {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("open csv output: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat csv output: %w", err)
	}

	s := &CSVSink{file: file, writer: csv.NewWriter(file)}
	if info.Size() == 0 {
		if err := s.write(models.CSVHeader); err != nil {
			file.Close()
			return nil, fmt.Errorf("write csv header: %w", err)
		}
	}
	return s, nil
}

// WriteRow appends one row and flushes it to the file
func (s *CSVSink) WriteRow(row models.ReviewRow) error {
	return s.write(row.Record())
}

func (s *CSVSink) write(record []string) error {
	if err := s.writer.Write(record); err != nil {
		return err
	}
	s.writer.Flush()
	return s.writer.Error()
}

// Close flushes pending data and closes the file
func (s *CSVSink) Close() error {
	if s.file == nil {
		return nil
	}
	s.writer.Flush()
	err := s.writer.Error()
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	s.file = nil
	return err
}
