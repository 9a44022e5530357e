package clean

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/KaramelBytes/tidycsv/internal/analysis"
	"github.com/KaramelBytes/tidycsv/internal/dataset"
	"github.com/KaramelBytes/tidycsv/internal/stats"
	"github.com/KaramelBytes/tidycsv/internal/utils"
)

// State is a step of the cleaning pipeline.
type State string

const (
	StateLoaded                State = "loaded"
	StateProfiled              State = "profiled"
	StateAllNullColumnsDropped State = "all_null_columns_dropped"
	StateHeadersNormalized     State = "headers_normalized"
	StateDuplicatesResolved    State = "duplicates_resolved"
	StateNullsResolved         State = "nulls_resolved"
	StateSaved                 State = "saved"
	StateAborted               State = "aborted"
)

// DefaultOutputSuffix is appended to the input stem to name the cleaned file.
const DefaultOutputSuffix = "-clean"

// Options configures one pipeline run.
type Options struct {
	Logger *zap.Logger
	Asker  Asker
	// Out receives user-facing progress text.
	Out                 io.Writer
	Load                dataset.Options
	EnforceCSVExtension bool
	OfferKeep           bool
	MeanRounding        stats.Rounding
	HeaderCollision     CollisionPolicy
	OutputSuffix        string
}

// Result summarizes a run. It is returned alongside errors with State set to
// StateAborted and the fields filled up to the failing step.
type Result struct {
	State          State
	Input          string
	Output         string
	Profile        *analysis.Profile
	DroppedColumns []string
	Renames        []Rename
	Duplicates     DuplicateOutcome
	Nulls          []NullOutcome
	Rows           int
	Cols           int
}

// Cleaner runs the fixed cleaning sequence over one file.
type Cleaner struct {
	opt   Options
	log   *zap.Logger
	dups  *DuplicatePolicy
	nulls *NullPolicy
}

// New builds a Cleaner, filling unset options with defaults.
func New(opt Options) *Cleaner {
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}
	if opt.Out == nil {
		opt.Out = io.Discard
	}
	if opt.MeanRounding == "" {
		opt.MeanRounding = stats.RoundTwoDecimal
	}
	if opt.HeaderCollision == "" {
		opt.HeaderCollision = CollisionFail
	}
	if opt.OutputSuffix == "" {
		opt.OutputSuffix = DefaultOutputSuffix
	}
	if opt.Load.NullMarkers == nil {
		opt.Load = dataset.DefaultOptions()
	}
	return &Cleaner{
		opt:   opt,
		log:   opt.Logger,
		dups:  &DuplicatePolicy{Asker: opt.Asker, Logger: opt.Logger},
		nulls: &NullPolicy{Asker: opt.Asker, Logger: opt.Logger, Out: opt.Out, OfferKeep: opt.OfferKeep, MeanRounding: opt.MeanRounding},
	}
}

// Run loads path, cleans it and writes the cleaned sibling file.
func (c *Cleaner) Run(ctx context.Context, path string) (*Result, error) {
	res := &Result{State: StateAborted}
	abs, err := filepath.Abs(path)
	if err != nil {
		return res, &UnreadableFileError{Path: path, Err: err}
	}
	res.Input = abs

	ds, err := c.load(abs)
	if err != nil {
		c.log.Error("load failed", zap.Error(err))
		return res, err
	}
	res.State = StateLoaded
	c.log.Info("loaded file", zap.Int("rows", ds.NumRows()), zap.Int("columns", ds.NumCols()))

	prof := c.profile(ds)
	res.Profile = prof
	res.State = StateProfiled

	if dropped := ds.DropColumnsFunc((*dataset.Column).AllNull); len(dropped) > 0 {
		c.log.Info("dropped columns that contain only nulls", zap.Strings("columns", dropped))
		res.DroppedColumns = dropped
	}
	res.State = StateAllNullColumnsDropped

	fmt.Fprintln(c.opt.Out, "\nStandardizing column headers...")
	fmt.Fprintf(c.opt.Out, "The original column headers are:\n%s\n", formatList(ds.Headers()))
	renames, err := RenameColumns(ds, c.opt.HeaderCollision)
	if err != nil {
		c.log.Error("header normalization failed", zap.Error(err))
		res.State = StateAborted
		return res, fmt.Errorf("normalize headers: %w", err)
	}
	res.Renames = renames
	fmt.Fprintf(c.opt.Out, "%s\n", formatList(ds.Headers()))
	c.log.Info("standardized column headers", zap.Strings("headers", ds.Headers()))
	res.State = StateHeadersNormalized

	dup, err := c.dups.Resolve(ctx, ds)
	res.Duplicates = dup
	if err != nil {
		res.State = StateAborted
		return res, err
	}
	res.State = StateDuplicatesResolved

	for _, col := range ds.NumericColumns() {
		out, err := c.nulls.Resolve(ctx, ds, col)
		if err != nil {
			res.State = StateAborted
			return res, err
		}
		if out.Nulls > 0 {
			res.Nulls = append(res.Nulls, out)
		}
		res.State = StateNullsResolved
	}

	dst := utils.SiblingPath(abs, c.opt.OutputSuffix)
	if err := c.save(ds, dst); err != nil {
		c.log.Error("save failed", zap.String("path", dst), zap.Error(err))
		res.State = StateAborted
		return res, err
	}
	res.Output = dst
	res.Rows, res.Cols = ds.NumRows(), ds.NumCols()
	res.State = StateSaved
	c.log.Info("cleaned file saved", zap.String("path", dst), zap.Int("rows", res.Rows), zap.Int("columns", res.Cols))
	return res, nil
}

func (c *Cleaner) load(abs string) (*dataset.Dataset, error) {
	if c.opt.EnforceCSVExtension && !dataset.HasCSVExtension(abs) {
		return nil, &WrongExtensionError{Path: abs, Ext: filepath.Ext(abs)}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, &UnreadableFileError{Path: abs, Err: err}
	}
	if info.IsDir() {
		return nil, &UnreadableFileError{Path: abs, Err: errors.New("is a directory")}
	}
	ds, err := dataset.Load(abs, c.opt.Load)
	if err != nil {
		if errors.Is(err, dataset.ErrParse) {
			return nil, err
		}
		return nil, &UnreadableFileError{Path: abs, Err: err}
	}
	if ds.NumRows() == 0 {
		return nil, fmt.Errorf("%s: %w", abs, ErrEmptyDataset)
	}
	return ds, nil
}

// profile logs the read-only summary and prints the report.
func (c *Cleaner) profile(ds *dataset.Dataset) *analysis.Profile {
	p := analysis.ProfileDataset(ds)
	fmt.Fprintln(c.opt.Out)
	fmt.Fprint(c.opt.Out, p.Markdown())
	c.log.Info("data shape", zap.Int("columns", p.Cols), zap.Int("rows", p.Rows))
	c.log.Info("duplicate rows", zap.Int("duplicates", p.Duplicates))
	if len(p.NullColumns) == 0 {
		c.log.Info("there are no nulls")
	} else {
		c.log.Warn("columns have null records", zap.Strings("columns", p.NullColumns))
	}
	return p
}

func (c *Cleaner) save(ds *dataset.Dataset, dst string) error {
	b, err := dataset.Encode(ds)
	if err != nil {
		return fmt.Errorf("encode cleaned data: %w", err)
	}
	if err := utils.SafeWriteFile(dst, b); err != nil {
		return fmt.Errorf("save cleaned data: %w", err)
	}
	return nil
}

func formatList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
