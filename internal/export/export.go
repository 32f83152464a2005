// Package export writes learning transcripts of assessment results as CSV
// or XLSX files and uploads them to an SFTP drop.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/aicred/internal/assessment"
	"github.com/abhisek/aicred/internal/subject"
)

// Header is the column order of every transcript.
var Header = []string{
	"Date", "Certificate ID", "Topic", "Subject", "Title",
	"AiCE Points", "CPD Hours", "Level", "Score",
}

// sheetName is the default sheet of a new workbook.
const sheetName = "Sheet1"

// Row is one exported result.
type Row struct {
	Date          time.Time
	CertificateID string
	Topic         string
	Subject       string
	Title         string
	AiCEPoints    float64
	CPDHours      float64
	Level         string
	Score         float64
}

// Rows converts results into transcript rows, classifying each topic with
// tax. A nil taxonomy uses subject.Default().
func Rows(results []assessment.Result, tax *subject.Taxonomy) []Row {
	if tax == nil {
		tax = subject.Default()
	}
	rows := make([]Row, 0, len(results))
	for _, r := range results {
		rows = append(rows, Row{
			Date:          r.Date,
			CertificateID: r.CertificateID,
			Topic:         r.Topic,
			Subject:       tax.Classify(r.Topic),
			Title:         r.LearningOutcome.Title,
			AiCEPoints:    r.LearningOutcome.KIUAllocation,
			CPDHours:      r.LearningOutcome.CPDPoints,
			Level:         r.LearningOutcome.AcademicLevel,
			Score:         r.Score,
		})
	}
	return rows
}

func (r Row) strings() []string {
	return []string{
		r.Date.Format("2006-01-02"),
		r.CertificateID,
		r.Topic,
		r.Subject,
		r.Title,
		formatNumber(r.AiCEPoints),
		formatNumber(r.CPDHours),
		r.Level,
		strconv.Itoa(int(r.Score*100+0.5)) + "%",
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV writes rows with a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(r.strings()); err != nil {
			return fmt.Errorf("write csv row %s: %w", r.CertificateID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes rows to a single-sheet workbook. Numeric columns are
// stored as numbers so they can be summed in a spreadsheet.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetRowStyle(sheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{
			r.Date.Format("2006-01-02"),
			r.CertificateID,
			r.Topic,
			r.Subject,
			r.Title,
			r.AiCEPoints,
			r.CPDHours,
			r.Level,
			r.Score,
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "B", 18); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "C", "E", 32); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Format is a transcript file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q, use .csv or .xlsx", filepath.Ext(path))
	}
}

// WriteFile writes rows to path in the format implied by its extension.
func WriteFile(path string, rows []Row) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	switch format {
	case FormatXLSX:
		err = WriteXLSX(f, rows)
	default:
		err = WriteCSV(f, rows)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
