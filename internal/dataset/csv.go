package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type delimitedLoader struct{}

func (delimitedLoader) CanLoad(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".txt")
}

func (delimitedLoader) Load(path string, opt Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return ReadDelimited(f, path, opt)
}

// ReadDelimited parses delimited text with a header row. name is used for
// the dataset name and error messages.
func ReadDelimited(r io.Reader, name string, opt Options) (*Dataset, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(name)
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.Comma = delim

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Path: name, Err: errors.New("no columns to parse")}
		}
		return nil, &ParseError{Path: name, Line: 1, Err: err}
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	ncol := len(header)

	var raw [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &ParseError{Path: name, Err: err}
		}
		if len(rec) > ncol {
			line, _ := cr.FieldPos(0)
			return nil, &ParseError{Path: name, Line: line, Err: fmt.Errorf("expected %d fields, saw %d", ncol, len(rec))}
		}
		raw = append(raw, rec)
	}

	d := New(filepath.Base(name), header)
	d.Path = name
	d.Delimiter = delim
	buildColumns(d, raw, opt)
	return d, nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

type delimitedWriter struct{}

func (delimitedWriter) CanWrite(f Format) bool { return f == FormatDelimited || f == "" }

func (delimitedWriter) Encode(d *Dataset) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDelimited(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDelimited writes the header row and every record using the dataset's delimiter.
func WriteDelimited(w io.Writer, d *Dataset) error {
	cw := csv.NewWriter(w)
	if d.Delimiter != 0 {
		cw.Comma = d.Delimiter
	}
	if err := cw.Write(d.Headers()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < d.NumRows(); i++ {
		if err := cw.Write(d.Record(i)); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
