package dataset

import (
	"math"
	"strconv"
	"strings"
)

// Options controls how raw cells become typed values.
type Options struct {
	// Delimiter for delimited files. If 0, chosen from the file extension.
	Delimiter rune
	// NullMarkers are cell texts (after trimming) treated as missing.
	NullMarkers []string
	// DecimalSeparator for numbers. If 0, auto-detect per value.
	DecimalSeparator rune
	// ThousandsSeparator is stripped before parsing when set.
	ThousandsSeparator rune
	// SheetName selects the worksheet for xlsx input; empty means the first sheet.
	SheetName string
}

// DefaultNullMarkers are the cell spellings treated as missing by default.
var DefaultNullMarkers = []string{"", "NA", "N/A", "n/a", "NaN", "nan", "null", "NULL", "None", "#N/A"}

// DefaultOptions returns comma-free numeric parsing and the default null markers.
func DefaultOptions() Options {
	return Options{
		NullMarkers:      append([]string(nil), DefaultNullMarkers...),
		DecimalSeparator: '.',
	}
}

func (o Options) nullSet() map[string]bool {
	set := make(map[string]bool, len(o.NullMarkers)+1)
	set[""] = true
	for _, m := range o.NullMarkers {
		set[strings.TrimSpace(m)] = true
	}
	return set
}

// buildColumns infers each column's kind from its raw cells and converts them.
func buildColumns(d *Dataset, raw [][]string, opt Options) {
	nulls := opt.nullSet()
	for j, c := range d.Columns {
		cells := make([]string, len(raw))
		for i, rec := range raw {
			if j < len(rec) {
				cells[i] = rec[j]
			}
		}
		c.Kind, c.Values = coerce(cells, nulls, opt)
	}
	d.rows = len(raw)
}

// coerce picks Integer when every non-null cell is an integer, Float when every
// non-null cell is a number, and Text otherwise.
func coerce(cells []string, nulls map[string]bool, opt Options) (Kind, []Value) {
	vals := make([]Value, len(cells))
	kind := Integer
	seen := 0
	for i, raw := range cells {
		s := strings.TrimSpace(raw)
		if nulls[s] {
			vals[i] = NullValue
			continue
		}
		seen++
		vals[i].Str = raw
		if kind == Text {
			continue
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			vals[i].Num = float64(n)
			continue
		}
		if x, ok := parseNumeric(s, opt); ok {
			vals[i].Num = x
			kind = Float
			continue
		}
		kind = Text
	}
	if seen == 0 {
		kind = Text
	}
	return kind, vals
}

func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.ReplaceAll(s, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		if cpos >= 0 && dpos >= 0 {
			if cpos > dpos {
				dec = ','
				thou = '.'
			} else {
				dec = '.'
				thou = ','
			}
		} else if cpos >= 0 {
			dec = ','
		} else {
			dec = '.'
		}
	}
	if thou != 0 && thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
