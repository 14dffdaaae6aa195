package historical

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"crypto-report/internal/application"
	"crypto-report/internal/domain"

	"github.com/xuri/excelize/v2"
)

// Loader reads a persisted table of daily prices from a .csv or .xlsx file.
type Loader struct {
	Path        string
	DefaultCoin domain.Coin
}

var _ application.HistoricalSource = (*Loader)(nil)

func NewLoader(path string, defaultCoin domain.Coin) *Loader {
	if defaultCoin == "" {
		defaultCoin = domain.DefaultCoin
	}
	return &Loader{Path: path, DefaultCoin: defaultCoin}
}

func (l *Loader) Load(ctx context.Context) (domain.HistoricalTable, error) {
	if err := ctx.Err(); err != nil {
		return domain.HistoricalTable{}, err
	}
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(l.Path)) {
	case ".xlsx":
		rows, err = readXLSX(l.Path)
	default:
		rows, err = readCSV(l.Path)
	}
	if err != nil {
		return domain.HistoricalTable{}, fmt.Errorf("historical %s: %w", l.Path, err)
	}
	if len(rows) == 0 {
		return domain.HistoricalTable{}, fmt.Errorf("historical %s: empty file", l.Path)
	}
	tbl, err := domain.NewHistoricalTable(rows[0], rows[1:], l.DefaultCoin)
	if err != nil {
		return domain.HistoricalTable{}, fmt.Errorf("historical %s: %w", l.Path, err)
	}
	return tbl, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		rows = append(rows, rec)
	}
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
}
