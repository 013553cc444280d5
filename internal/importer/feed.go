package importer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// FeedRow carries one feed row as raw strings. Fields are looked up by
// header name, never by column position, and parsed into typed values one
// by one during import.
type FeedRow struct {
	LineNum     int
	OrderNumber string
	Phone       string
	FullName    string
	Email       string
	TotalAmount string
	ExpiryDays  string
	TrackNumber string
	Notes       string
	Products    string
	Quantities  string
	Prices      string
}

type FeedReader interface {
	ReadAll() ([]FeedRow, error)
}

// OpenFeed validates the feed file and picks a reader by extension. Any
// error here is file-level and aborts the run before a single row is
// touched.
func OpenFeed(path string) (FeedReader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("feed file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return &xlsxFeed{path: path}, nil
	case ".csv":
		return &csvFeed{path: path}, nil
	default:
		return nil, fmt.Errorf("unsupported feed format %q: expected .xlsx or .csv", filepath.Ext(path))
	}
}

type xlsxFeed struct {
	path string
}

func (f *xlsxFeed) ReadAll() ([]FeedRow, error) {
	file, err := excelize.OpenFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx feed: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheet := file.GetSheetName(0)
	records, err := file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return buildRows(records), nil
}

type csvFeed struct {
	path string
}

func (f *csvFeed) ReadAll() ([]FeedRow, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv feed: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv feed: %w", err)
	}
	return buildRows(records), nil
}

// buildRows maps records onto FeedRow by header name. The first record is
// the header; data rows are numbered from 2 to match what an operator sees
// in a spreadsheet.
func buildRows(records [][]string) []FeedRow {
	if len(records) == 0 {
		return nil
	}

	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(record []string, name string) string {
		col, ok := index[name]
		if !ok || col >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[col])
	}

	rows := make([]FeedRow, 0, len(records)-1)
	for i, record := range records[1:] {
		rows = append(rows, FeedRow{
			LineNum:     i + 2,
			OrderNumber: field(record, "order_number"),
			Phone:       field(record, "phone"),
			FullName:    field(record, "full_name"),
			Email:       field(record, "email"),
			TotalAmount: field(record, "total_amount"),
			ExpiryDays:  field(record, "expiry_days"),
			TrackNumber: field(record, "track_number"),
			Notes:       field(record, "notes"),
			Products:    field(record, "products"),
			Quantities:  field(record, "quantities"),
			Prices:      field(record, "prices"),
		})
	}
	return rows
}

func splitList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
