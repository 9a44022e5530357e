package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/tidycsv/internal/dataset"
	"github.com/KaramelBytes/tidycsv/internal/stats"
)

// Profile is a read-only summary of a dataset.
type Profile struct {
	Name           string
	Rows           int
	Cols           int
	Duplicates     int
	NullColumns    []string
	AllNullColumns []string
	Columns        []ColumnSummary
}

// ColumnSummary captures inferred type and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    dataset.Kind
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min      float64
	Max      float64
	Mean     float64
	Std      float64
	Outliers int
	// Text top values
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// ProfileDataset computes shape, duplicate count and per-column null and
// numeric summaries. It never mutates d.
func ProfileDataset(d *dataset.Dataset) *Profile {
	p := &Profile{
		Name:       d.Name,
		Rows:       d.NumRows(),
		Cols:       d.NumCols(),
		Duplicates: d.DuplicateCount(),
	}
	for _, c := range d.Columns {
		s := summarize(c)
		if s.Missing > 0 {
			p.NullColumns = append(p.NullColumns, c.Name)
		}
		if c.AllNull() {
			p.AllNullColumns = append(p.AllNullColumns, c.Name)
		}
		p.Columns = append(p.Columns, s)
	}
	return p
}

func summarize(c *dataset.Column) ColumnSummary {
	s := ColumnSummary{Name: c.Name, Kind: c.Kind}
	s.Missing = c.NullCount()
	s.NonNull = len(c.Values) - s.Missing
	if c.Kind.Numeric() {
		nums := c.Numbers()
		if len(nums) == 0 {
			return s
		}
		// Welford update
		s.Min, s.Max = math.Inf(1), math.Inf(-1)
		var mean, m2 float64
		for i, x := range nums {
			if x < s.Min {
				s.Min = x
			}
			if x > s.Max {
				s.Max = x
			}
			delta := x - mean
			mean += delta / float64(i+1)
			m2 += delta * (x - mean)
		}
		s.Mean = mean
		if len(nums) > 1 {
			s.Std = math.Sqrt(m2 / float64(len(nums)-1))
		}
		s.Outliers = stats.CountOutliers(nums)
		return s
	}
	cats := map[string]int{}
	for _, v := range c.Values {
		if !v.Null {
			cats[v.Str]++
		}
	}
	tops := make([]CategoryCount, 0, len(cats))
	for k, v := range cats {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > 5 {
		tops = tops[:5]
	}
	s.TopValues = tops
	s.Unique = len(cats)
	return s
}

// Markdown renders a compact report for the console.
func (p *Profile) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATA PROFILE]\n")
	if p.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", p.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", p.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", p.Cols))
	b.WriteString(fmt.Sprintf("Duplicates: %d\n\n", p.Duplicates))

	b.WriteString("[SCHEMA]\n")
	for _, c := range p.Columns {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, missPct))
		switch {
		case c.Kind.Numeric() && c.NonNull > 0:
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
			if c.Outliers > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d outside 1.5×IQR", c.Outliers))
			}
		case len(c.TopValues) > 0:
			b.WriteString(" — top: ")
			for i, kv := range c.TopValues {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
			}
			if c.Unique > len(c.TopValues) {
				b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
			}
		}
		b.WriteString("\n")
	}
	if len(p.NullColumns) > 0 || len(p.AllNullColumns) > 0 {
		b.WriteString("\n[NOTES]\n")
		if len(p.NullColumns) > 0 {
			b.WriteString(fmt.Sprintf("- columns with nulls: %s\n", strings.Join(p.NullColumns, ", ")))
		}
		if len(p.AllNullColumns) > 0 {
			b.WriteString(fmt.Sprintf("- entirely null: %s\n", strings.Join(p.AllNullColumns, ", ")))
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
