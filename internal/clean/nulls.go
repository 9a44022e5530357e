package clean

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/KaramelBytes/tidycsv/internal/dataset"
	"github.com/KaramelBytes/tidycsv/internal/stats"
)

// NullAction is the user's choice for a column's nulls.
type NullAction string

const (
	NullImpute NullAction = "impute"
	NullKeep   NullAction = "keep"
	NullDrop   NullAction = "drop"
)

// NullOutcome records what happened to one numeric column.
type NullOutcome struct {
	Column     string
	Nulls      int
	Percent    float64
	Action     NullAction
	Statistic  string // median|mean when imputed
	Imputer    float64
	Outliers   bool
	RowsBefore int
	RowsAfter  int
}

// NullPolicy decides drop, keep or impute per numeric column.
type NullPolicy struct {
	Asker        Asker
	Logger       *zap.Logger
	Out          io.Writer
	OfferKeep    bool
	MeanRounding stats.Rounding
}

func (p *NullPolicy) options() []string {
	if p.OfferKeep {
		return []string{string(NullImpute), string(NullKeep), string(NullDrop)}
	}
	return []string{string(NullDrop), string(NullImpute)}
}

func (p *NullPolicy) question(column string) string {
	if p.OfferKeep {
		return fmt.Sprintf("Would you like to 'impute', 'keep', or 'drop' nulls in the '%s' column: ", column)
	}
	return fmt.Sprintf("Would you like to 'drop' or 'impute' nulls in the '%s' column: ", column)
}

// Resolve handles the nulls of column c in d. Columns without nulls are skipped.
func (p *NullPolicy) Resolve(ctx context.Context, d *dataset.Dataset, c *dataset.Column) (NullOutcome, error) {
	rows := d.NumRows()
	out := NullOutcome{Column: c.Name, Nulls: c.NullCount(), RowsBefore: rows, RowsAfter: rows}
	if out.Nulls == 0 {
		return out, nil
	}
	if rows > 0 {
		out.Percent = stats.RoundTo(float64(out.Nulls)/float64(rows)*100, 2)
	}
	p.Logger.Info("column has nulls",
		zap.String("column", c.Name),
		zap.Int("nulls", out.Nulls),
		zap.Float64("percent", out.Percent))
	fmt.Fprintf(p.Out, "There are %d nulls in the '%s' column, %.2f%% of its values.\n", out.Nulls, c.Name, out.Percent)

	answer, err := p.Asker.Ask(ctx, p.options(), p.question(c.Name))
	if err != nil {
		p.Logger.Error("no valid null handling entered", zap.String("column", c.Name), zap.Error(err))
		return out, fmt.Errorf("resolve nulls in %q: %w", c.Name, err)
	}
	out.Action = NullAction(answer)

	switch out.Action {
	case NullKeep:
		p.Logger.Info("keeping nulls", zap.String("column", c.Name))
	case NullDrop:
		keep := make([]bool, rows)
		for i, v := range c.Values {
			keep[i] = !v.Null
		}
		removed := d.KeepRows(keep)
		out.RowsAfter = d.NumRows()
		p.Logger.Info("dropped rows with nulls",
			zap.String("column", c.Name),
			zap.Int("removed", removed),
			zap.Int("rows", out.RowsAfter))
	case NullImpute:
		p.impute(c, &out)
	}
	return out, nil
}

func (p *NullPolicy) impute(c *dataset.Column, out *NullOutcome) {
	fmt.Fprintf(p.Out, "Checking for outliers in '%s'...\n", c.Name)
	nums := c.Numbers()
	if len(nums) == 0 {
		out.Action = NullKeep
		p.Logger.Warn("no values to impute from, keeping nulls", zap.String("column", c.Name))
		return
	}
	imp, stat, outliers := ChooseImputer(nums, p.MeanRounding)
	out.Imputer, out.Statistic, out.Outliers = imp, stat, outliers
	if outliers {
		p.Logger.Info("outliers present, imputing with the median",
			zap.String("column", c.Name), zap.Float64("imputer", imp))
	} else {
		p.Logger.Info("no outliers, imputing with the mean",
			zap.String("column", c.Name), zap.Float64("imputer", imp))
	}
	filled := c.Fill(imp)
	p.Logger.Info("imputed nulls", zap.String("column", c.Name), zap.Int("filled", filled))
}

// ChooseImputer returns the fill value for non-null values: the median rounded
// to two decimals when IQR outliers are present, otherwise the mean rounded per r.
func ChooseImputer(values []float64, r stats.Rounding) (imputer float64, statistic string, outliers bool) {
	if stats.HasOutliers(values) {
		return stats.RoundTo(stats.Median(values), 2), "median", true
	}
	return r.Apply(stats.Mean(values)), "mean", false
}
