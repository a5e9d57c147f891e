// Package export writes the row table to an xlsx workbook.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/jo-hoe/shelfintake/internal/backend/rowstore"
)

const (
	FileName  = "data.xlsx"
	SheetName = "Sheet1"
)

var leadingColumns = []string{"frontImage", "backImage", "images"}

type Exporter struct {
	dir string
}

// NewExporter writes workbooks into dir (os.TempDir when empty)
func NewExporter(dir string) *Exporter {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Exporter{dir: dir}
}

// Path is the location Export writes to
func (e *Exporter) Path() string {
	return filepath.Join(e.dir, FileName)
}

// Columns returns the header row for rows: frontImage, backImage, images,
// the sorted extra columns, then Image and Barcode.
func Columns(rows []rowstore.Row) []string {
	extraSet := map[string]struct{}{}
	for _, row := range rows {
		for key := range row.Extra {
			extraSet[key] = struct{}{}
		}
	}
	extras := make([]string, 0, len(extraSet))
	for key := range extraSet {
		if slices.Contains(leadingColumns, key) || key == "Image" || key == "Barcode" {
			continue
		}
		extras = append(extras, key)
	}
	slices.Sort(extras)

	columns := append([]string{}, leadingColumns...)
	columns = append(columns, extras...)
	return append(columns, "Image", "Barcode")
}

func cellValues(columns []string, row rowstore.Row) []any {
	values := make([]any, len(columns))
	for i, column := range columns {
		var value string
		switch column {
		case "frontImage":
			value = row.FrontImage
		case "backImage":
			value = row.BackImage
		case "images":
			value = row.Images
		case "Image":
			value = row.Image
		case "Barcode":
			value = row.Barcode
		default:
			value = row.Extra[column]
		}
		values[i] = truncateCell(value)
	}
	return values
}

// truncateCell keeps values within the xlsx per-cell character limit
func truncateCell(value string) string {
	if utf8.RuneCountInString(value) <= excelize.TotalCellChars {
		return value
	}
	runes := []rune(value)
	return string(runes[:excelize.TotalCellChars])
}

// Export writes rows to data.xlsx and returns the file path
func (e *Exporter) Export(ctx context.Context, rows []rowstore.Row) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("Exporter: failed to close workbook", "error", err)
		}
	}()

	columns := Columns(rows)
	header := make([]any, len(columns))
	for i, column := range columns {
		header[i] = column
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		values := cellValues(columns, row)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	path := e.Path()
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	slog.Info("Exporter: wrote workbook", "path", path, "rows", len(rows))
	return path, nil
}
