// Package stats holds the IQR outlier test and the imputation statistics.
package stats

import (
	"fmt"
	"math"
	"sort"
)

// IQRMultiplier scales the interquartile range when computing outlier fences.
const IQRMultiplier = 1.5

// Fences holds the quartiles and Tukey fences of a numeric sample.
type Fences struct {
	Q1, Q3 float64
	IQR    float64
	Lower  float64
	Upper  float64
}

// Outside reports whether x lies strictly outside [Lower, Upper].
func (f Fences) Outside(x float64) bool { return x < f.Lower || x > f.Upper }

// ComputeFences returns the IQR fences of values. NaN entries are ignored.
// The second return is false when no usable values remain.
func ComputeFences(values []float64) (Fences, bool) {
	sorted := sortedFinite(values)
	if len(sorted) == 0 {
		return Fences{}, false
	}
	q1 := Quantile(sorted, 0.25)
	q3 := Quantile(sorted, 0.75)
	iqr := q3 - q1
	return Fences{
		Q1:    q1,
		Q3:    q3,
		IQR:   iqr,
		Lower: q1 - IQRMultiplier*iqr,
		Upper: q3 + IQRMultiplier*iqr,
	}, true
}

// HasOutliers reports whether any value falls strictly outside the IQR fences.
// A zero IQR is not special-cased: any deviation from the quartiles counts.
func HasOutliers(values []float64) bool {
	f, ok := ComputeFences(values)
	if !ok {
		return false
	}
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if f.Outside(v) {
			return true
		}
	}
	return false
}

// CountOutliers returns how many values fall strictly outside the IQR fences.
func CountOutliers(values []float64) int {
	f, ok := ComputeFences(values)
	if !ok {
		return 0
	}
	n := 0
	for _, v := range values {
		if !math.IsNaN(v) && f.Outside(v) {
			n++
		}
	}
	return n
}

// Quantile linearly interpolates between closest ranks of an ascending slice.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// Median of values, ignoring NaN. Returns NaN for an empty sample.
func Median(values []float64) float64 {
	sorted := sortedFinite(values)
	if len(sorted) == 0 {
		return math.NaN()
	}
	return Quantile(sorted, 0.5)
}

// Mean of values, ignoring NaN. Returns NaN for an empty sample.
func Mean(values []float64) float64 {
	var sum float64
	var n int
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

func sortedFinite(values []float64) []float64 {
	cp := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			cp = append(cp, v)
		}
	}
	sort.Float64s(cp)
	return cp
}

// Rounding selects how an imputed mean is rounded.
type Rounding string

const (
	RoundNone       Rounding = "none"
	RoundWhole      Rounding = "whole_number"
	RoundTwoDecimal Rounding = "two_decimal"
)

// ParseRounding validates a rounding mode name.
func ParseRounding(s string) (Rounding, error) {
	switch Rounding(s) {
	case RoundNone, RoundWhole, RoundTwoDecimal:
		return Rounding(s), nil
	case "":
		return RoundTwoDecimal, nil
	default:
		return "", fmt.Errorf("invalid rounding %q (use none|whole_number|two_decimal)", s)
	}
}

// Apply rounds x according to the mode.
func (r Rounding) Apply(x float64) float64 {
	switch r {
	case RoundWhole:
		return RoundTo(x, 0)
	case RoundTwoDecimal:
		return RoundTo(x, 2)
	default:
		return x
	}
}

// RoundTo rounds x to the given number of decimals, half to even.
func RoundTo(x float64, decimals int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(x*p) / p
}
