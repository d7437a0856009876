package sink

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/law-makers/reviewcrawl/pkg/models"
	"github.com/xuri/excelize/v2"
)

const (
	xlsxSheet = "Reviews"
	// The workbook is rewritten on every save, so rows are saved in batches
	xlsxSaveEvery = 50
)

// XLSXSink writes rows to a spreadsheet. Rows are saved to disk every
// xlsxSaveEvery rows and on Close.
type XLSXSink struct {
	path    string
	file    *excelize.File
	next    int // next 1-based row index
	pending int
}

// NewXLSXSink creates or, when appendRows is set, extends the workbook at path
func NewXLSXSink(path string, appendRows bool) (*XLSXSink, error) {
	s := &XLSXSink{path: path}

	if appendRows {
		f, err := excelize.OpenFile(path)
		switch {
		case err == nil:
			rows, err := f.GetRows(xlsxSheet)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("read xlsx output: %w", err)
			}
			s.file = f
			s.next = len(rows) + 1
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("open xlsx output: %w", err)
		}
	}

	if s.file == nil {
		f := excelize.NewFile()
		if err := f.SetSheetName(f.GetSheetName(0), xlsxSheet); err != nil {
			f.Close()
			return nil, err
		}
		s.file = f
		s.next = 1
	}

	if s.next == 1 {
		if err := s.setRow(models.CSVHeader); err != nil {
			s.file.Close()
			return nil, fmt.Errorf("write xlsx header: %w", err)
		}
		if err := s.save(); err != nil {
			s.file.Close()
			return nil, err
		}
	}
	return s, nil
}

// WriteRow appends one row
func (s *XLSXSink) WriteRow(row models.ReviewRow) error {
	if err := s.setRow(row.Record()); err != nil {
		return err
	}
	s.pending++
	if s.pending >= xlsxSaveEvery {
		return s.save()
	}
	return nil
}

func (s *XLSXSink) setRow(record []string) error {
	cell, err := excelize.CoordinatesToCellName(1, s.next)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(record))
	for i, v := range record {
		values[i] = v
	}
	if err := s.file.SetSheetRow(xlsxSheet, cell, &values); err != nil {
		return err
	}
	s.next++
	return nil
}

func (s *XLSXSink) save() error {
	if err := s.file.SaveAs(s.path); err != nil {
		return fmt.Errorf("save xlsx output: %w", err)
	}
	s.pending = 0
	return nil
}

// Close saves outstanding rows and releases the workbook
func (s *XLSXSink) Close() error {
	if s.file == nil {
		return nil
	}
	var err error
	if s.pending > 0 {
		err = s.save()
	}
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	s.file = nil
	return err
}
