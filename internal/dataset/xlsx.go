package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

// Load reads the selected sheet (first sheet when opt.SheetName is empty).
// The first row is the header.
func (xlsxLoader) Load(path string, opt Options) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := opt.SheetName
	sheets := f.GetSheetList()
	if sheet == "" {
		if len(sheets) == 0 {
			return nil, &ParseError{Path: path, Err: errors.New("workbook has no sheets")}
		}
		sheet = sheets[0]
	} else if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("sheet %q not found (available: %s)", sheet, strings.Join(sheets, ", "))}
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("read sheet %q: %w", sheet, err)}
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, &ParseError{Path: path, Err: errors.New("no columns to parse")}
	}
	header := rows[0]
	ncol := len(header)
	body := rows[1:]
	for i, rec := range body {
		if len(rec) > ncol {
			return nil, &ParseError{Path: path, Line: i + 2, Err: fmt.Errorf("expected %d fields, saw %d", ncol, len(rec))}
		}
	}

	d := New(filepath.Base(path), header)
	d.Path = path
	d.Format = FormatXLSX
	d.Delimiter = 0
	d.Sheet = sheet
	buildColumns(d, body, opt)
	return d, nil
}

type xlsxWriter struct{}

func (xlsxWriter) CanWrite(f Format) bool { return f == FormatXLSX }

// Encode writes a single-sheet workbook. Numeric cells stay numeric; nulls are left blank.
func (xlsxWriter) Encode(d *Dataset) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	if d.Sheet != "" && d.Sheet != sheet {
		if err := f.SetSheetName(sheet, d.Sheet); err != nil {
			return nil, fmt.Errorf("name sheet: %w", err)
		}
		sheet = d.Sheet
	}

	header := make([]interface{}, d.NumCols())
	for j, h := range d.Headers() {
		header[j] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < d.NumRows(); i++ {
		row := make([]interface{}, d.NumCols())
		for j, c := range d.Columns {
			v := c.Values[i]
			switch {
			case v.Null:
				row[j] = nil
			case c.Kind == Integer:
				row[j] = int64(v.Num)
			case c.Kind == Float:
				row[j] = v.Num
			default:
				row[j] = v.Str
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
