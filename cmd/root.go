package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/tidycsv/internal/clean"
	cfgpkg "github.com/KaramelBytes/tidycsv/internal/config"
	"github.com/KaramelBytes/tidycsv/internal/dataset"
	"github.com/KaramelBytes/tidycsv/internal/logging"
	"github.com/KaramelBytes/tidycsv/internal/prompt"
	"github.com/KaramelBytes/tidycsv/internal/stats"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Overrides (applied over config when set)
	flagMaxAttempts     int
	flagNoKeep          bool
	flagMeanRounding    string
	flagEnforceCSV      bool
	flagHeaderCollision string
	flagLogFile         string
	flagSheetName       string
	flagDelimiter       string

	// Loaded configuration
	cfg    *cfgpkg.Global
	cfgErr error
)

var rootCmd = &cobra.Command{
	Use:   "tidycsv <file>",
	Short: "tidycsv: interactively clean one tabular data file",
	Long: `tidycsv profiles a CSV (or TSV/XLSX) file, drops all-null columns, standardizes
headers, asks how to resolve duplicate rows and numeric nulls, and writes
<name>-clean.<ext> next to the input.`,
	Args:          exactlyOneFile,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runClean,
}

// InvalidInvocationError reports a wrong command line.
type InvalidInvocationError struct {
	Reason string
	Usage  string
}

func (e *InvalidInvocationError) Error() string { return e.Reason }

func exactlyOneFile(cmd *cobra.Command, args []string) error {
	switch {
	case len(args) == 1:
		return nil
	case len(args) == 0:
		return &InvalidInvocationError{Reason: "no file was given; this program accepts exactly one csv file as argument", Usage: cmd.UseLine()}
	default:
		return &InvalidInvocationError{
			Reason: fmt.Sprintf("you entered %d arguments; this program accepts exactly one csv file as argument", len(args)),
			Usage:  cmd.UseLine(),
		}
	}
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(report(os.Stderr, err))
	}
}

// report prints err for the user and returns the process exit code.
func report(w io.Writer, err error) int {
	fmt.Fprintln(w, "✗ Error:", err)
	var inv *InvalidInvocationError
	if errors.As(err, &inv) {
		if inv.Usage != "" {
			fmt.Fprintf(w, "Usage: %s\n", inv.Usage)
		}
		return 2
	}
	if errors.Is(err, prompt.ErrExhaustedRetries) {
		fmt.Fprintln(w, "Please restart the program")
	}
	return 1
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &InvalidInvocationError{Reason: err.Error(), Usage: c.UseLine()}
	})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ~/.tidycsv/config.yaml)")
	pf.BoolVar(&debug, "debug", false, "enable debug logging")
	pf.IntVar(&flagMaxAttempts, "max-attempts", 0, "attempts per question before giving up (overrides config)")
	pf.BoolVar(&flagNoKeep, "no-keep", false, "do not offer 'keep' when resolving nulls")
	pf.StringVar(&flagMeanRounding, "mean-rounding", "", "mean rounding: none|whole_number|two_decimal (overrides config)")
	pf.BoolVar(&flagEnforceCSV, "enforce-csv", false, "reject inputs without a .csv extension")
	pf.StringVar(&flagHeaderCollision, "header-collision", "", "on normalized header clash: fail|suffix (overrides config)")
	pf.StringVar(&flagLogFile, "log-file", "", "run log path; empty disables the file log (overrides config)")
	pf.StringVar(&flagSheetName, "sheet-name", "", "worksheet to read from .xlsx input")
	pf.StringVar(&flagDelimiter, "delimiter", "", "field delimiter: ','|';'|'tab'|'|' (default by extension)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal here: commands that need config return cfgErr.
		cfg, cfgErr = nil, err
		return
	}
	cfg, cfgErr = c, nil

	f := rootCmd.PersistentFlags()
	if f.Changed("max-attempts") && flagMaxAttempts > 0 {
		cfg.MaxAttempts = flagMaxAttempts
	}
	if f.Changed("no-keep") {
		cfg.OfferKeep = !flagNoKeep
	}
	if f.Changed("mean-rounding") {
		cfg.MeanRounding = flagMeanRounding
	}
	if f.Changed("enforce-csv") {
		cfg.EnforceCSVExtension = flagEnforceCSV
	}
	if f.Changed("header-collision") {
		cfg.HeaderCollision = flagHeaderCollision
	}
	if f.Changed("log-file") {
		cfg.LogFile = flagLogFile
	}
	if f.Changed("sheet-name") {
		cfg.SheetName = flagSheetName
	}
	if f.Changed("delimiter") {
		cfg.Delimiter = flagDelimiter
	}
	if debug {
		cfg.LogLevel = "debug"
	}
}

func effectiveConfig() (*cfgpkg.Global, error) {
	if cfgErr != nil {
		return nil, fmt.Errorf("load config: %w", cfgErr)
	}
	if cfg == nil {
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}
	return cfg, nil
}

func runClean(cmd *cobra.Command, args []string) error {
	c, err := effectiveConfig()
	if err != nil {
		return err
	}
	rounding, err := stats.ParseRounding(c.MeanRounding)
	if err != nil {
		return &InvalidInvocationError{Reason: err.Error(), Usage: cmd.UseLine()}
	}
	collision, err := clean.ParseCollisionPolicy(c.HeaderCollision)
	if err != nil {
		return &InvalidInvocationError{Reason: err.Error(), Usage: cmd.UseLine()}
	}
	loadOpt, err := datasetOptions(c)
	if err != nil {
		return &InvalidInvocationError{Reason: err.Error(), Usage: cmd.UseLine()}
	}

	logger, err := logging.New(logging.Config{
		File:    c.LogFile,
		Console: c.LogConsole,
		Format:  c.LogFormat,
		Level:   c.LogLevel,
		Stderr:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("init run log: %w", err)
	}
	defer logger.Close()

	input := args[0]
	if abs, err := filepath.Abs(input); err == nil {
		input = abs
	}
	log := logging.ForRun(logger.Logger, input)

	cleaner := clean.New(clean.Options{
		Logger:              log,
		Asker:               prompt.New(cmd.InOrStdin(), cmd.OutOrStdout(), c.MaxAttempts),
		Out:                 cmd.OutOrStdout(),
		Load:                loadOpt,
		EnforceCSVExtension: c.EnforceCSVExtension,
		OfferKeep:           c.OfferKeep,
		MeanRounding:        rounding,
		HeaderCollision:     collision,
		OutputSuffix:        c.OutputSuffix,
	})
	res, err := cleaner.Run(cmd.Context(), input)
	if err != nil {
		if errors.Is(err, prompt.ErrExhaustedRetries) {
			log.Error("no valid answer, aborting without saving", zap.Error(err))
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved cleaned data to %s (%d rows, %d columns)\n", res.Output, res.Rows, res.Cols)
	return nil
}

// datasetOptions maps config onto loader options.
func datasetOptions(c *cfgpkg.Global) (dataset.Options, error) {
	opt := dataset.DefaultOptions()
	if c.NullMarkers != nil {
		opt.NullMarkers = c.NullMarkers
	}
	opt.SheetName = c.SheetName
	switch strings.ToLower(c.Delimiter) {
	case "":
	case ",", "comma":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";", "semicolon":
		opt.Delimiter = ';'
	case "|", "pipe":
		opt.Delimiter = '|'
	default:
		return opt, fmt.Errorf("unsupported delimiter: %q (use ','|';'|'tab'|'|')", c.Delimiter)
	}
	switch strings.ToLower(strings.TrimSpace(c.DecimalSeparator)) {
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case ",", "comma":
		opt.DecimalSeparator = ','
	case "", "auto":
		opt.DecimalSeparator = 0
	default:
		return opt, fmt.Errorf("unsupported decimal separator: %q (use '.'|'comma'|'auto')", c.DecimalSeparator)
	}
	return opt, nil
}
