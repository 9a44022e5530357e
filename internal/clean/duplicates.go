package clean

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/KaramelBytes/tidycsv/internal/dataset"
)

// Asker is the interactive decision source used by the policies.
type Asker interface {
	Ask(ctx context.Context, options []string, text string) (string, error)
}

// KeepPolicy selects which occurrence of a duplicate group survives.
type KeepPolicy string

const (
	KeepFirst KeepPolicy = "first"
	KeepLast  KeepPolicy = "last"
)

const duplicatePrompt = "For each duplicate, would you like to keep the 'first' or 'last': "

// DropDuplicates removes all but one row of each value-identical group,
// preserving original row order, and returns the number of rows removed.
func DropDuplicates(d *dataset.Dataset, keep KeepPolicy) int {
	dup := d.Duplicated(keep == KeepLast)
	mask := make([]bool, len(dup))
	for i, isDup := range dup {
		mask[i] = !isDup
	}
	return d.KeepRows(mask)
}

// DuplicateOutcome records what the duplicate step did.
type DuplicateOutcome struct {
	Found   int
	Keep    KeepPolicy
	Removed int
}

// DuplicatePolicy asks for a keep policy when duplicates exist and applies it.
type DuplicatePolicy struct {
	Asker  Asker
	Logger *zap.Logger
}

// Resolve is a no-op when there are no duplicate rows.
func (p *DuplicatePolicy) Resolve(ctx context.Context, d *dataset.Dataset) (DuplicateOutcome, error) {
	out := DuplicateOutcome{Found: d.DuplicateCount()}
	if out.Found == 0 {
		p.Logger.Info("no duplicate rows")
		return out, nil
	}
	answer, err := p.Asker.Ask(ctx, []string{string(KeepFirst), string(KeepLast)}, duplicatePrompt)
	if err != nil {
		p.Logger.Error("no valid duplicate keep policy entered", zap.Error(err))
		return out, fmt.Errorf("resolve duplicates: %w", err)
	}
	out.Keep = KeepPolicy(answer)
	p.Logger.Info("dropping duplicates", zap.String("keep", answer))
	out.Removed = DropDuplicates(d, out.Keep)
	p.Logger.Info("duplicates removed",
		zap.String("keep", answer),
		zap.Int("removed", out.Removed),
		zap.Int("rows", d.NumRows()))
	return out, nil
}
