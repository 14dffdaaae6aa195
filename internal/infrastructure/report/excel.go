package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"crypto-report/internal/application"
	"crypto-report/internal/domain"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// ExcelWriter writes the report as one workbook with a sheet per table.
type ExcelWriter struct{}

var _ application.ReportWriter = ExcelWriter{}

type sheet struct {
	name   string
	header []string
	rows   [][]any
}

func sheets(r domain.Report) []sheet {
	return []sheet{
		{domain.SheetHistorical, r.Historical.Columns, r.Historical.Rows()},
		{domain.SheetLive, domain.LiveColumns, domain.LiveRows(r.Live)},
		{domain.SheetComparison, r.Comparison.Columns, r.Comparison.Rows()},
	}
}

func (ExcelWriter) Write(ctx context.Context, path string, r domain.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets(r) {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, s.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("add sheet %q: %w", s.name, err)
		}
		if err := writeSheet(f, s); err != nil {
			return fmt.Errorf("sheet %q: %w", s.name, err)
		}
	}
	f.SetActiveSheet(0)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, s sheet) error {
	header := make([]any, len(s.header))
	for i, h := range s.header {
		header[i] = h
	}
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return err
	}
	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// ReadSheets returns the raw cell values of every sheet in the workbook,
// header row included.
func ReadSheets(path string) (map[string][][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := map[string][][]string{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		out[name] = rows
	}
	return out, nil
}
