package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tidycsv/internal/clean"
	cfgpkg "github.com/KaramelBytes/tidycsv/internal/config"
	"github.com/KaramelBytes/tidycsv/internal/stats"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set tidycsv configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := effectiveConfig()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "max_attempts: %d\n", c.MaxAttempts)
		fmt.Fprintf(w, "offer_keep: %t\n", c.OfferKeep)
		fmt.Fprintf(w, "mean_rounding: %s\n", c.MeanRounding)
		fmt.Fprintf(w, "header_collision: %s\n", c.HeaderCollision)
		fmt.Fprintf(w, "enforce_csv_extension: %t\n", c.EnforceCSVExtension)
		fmt.Fprintf(w, "null_markers: %s\n", quoteAll(c.NullMarkers))
		if c.Delimiter != "" {
			fmt.Fprintf(w, "delimiter: %q\n", c.Delimiter)
		}
		fmt.Fprintf(w, "decimal_separator: %s\n", c.DecimalSeparator)
		if c.SheetName != "" {
			fmt.Fprintf(w, "sheet_name: %s\n", c.SheetName)
		}
		fmt.Fprintf(w, "output_suffix: %s\n", c.OutputSuffix)
		fmt.Fprintf(w, "log_file: %s\n", c.LogFile)
		fmt.Fprintf(w, "log_console: %t\n", c.LogConsole)
		fmt.Fprintf(w, "log_format: %s\n", c.LogFormat)
		fmt.Fprintf(w, "log_level: %s\n", c.LogLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := effectiveConfig()
		if err != nil {
			return err
		}
		if err := setKey(c, args[0], args[1]); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func setKey(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "max_attempts":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid positive int for max_attempts: %v", val)
		}
		c.MaxAttempts = i
	case "offer_keep", "enforce_csv_extension", "log_console":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for %s: %v", key, val)
		}
		switch key {
		case "offer_keep":
			c.OfferKeep = b
		case "enforce_csv_extension":
			c.EnforceCSVExtension = b
		default:
			c.LogConsole = b
		}
	case "mean_rounding":
		r, err := stats.ParseRounding(val)
		if err != nil {
			return err
		}
		c.MeanRounding = string(r)
	case "header_collision":
		p, err := clean.ParseCollisionPolicy(val)
		if err != nil {
			return err
		}
		c.HeaderCollision = string(p)
	case "null_markers":
		parts := strings.Split(val, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		c.NullMarkers = parts
	case "delimiter":
		c.Delimiter = val
	case "decimal_separator":
		c.DecimalSeparator = val
	case "sheet_name":
		c.SheetName = val
	case "output_suffix":
		if val == "" {
			return fmt.Errorf("output_suffix must not be empty")
		}
		c.OutputSuffix = val
	case "log_file":
		c.LogFile = val
	case "log_format":
		switch val {
		case "console", "json":
			c.LogFormat = val
		default:
			return fmt.Errorf("invalid log_format: %s (use console or json)", val)
		}
	case "log_level":
		switch val {
		case "debug", "info", "warn", "error":
			c.LogLevel = val
		default:
			return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", val)
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	// Validate cross-field parsing before persisting.
	if _, err := datasetOptions(c); err != nil {
		return err
	}
	return nil
}

func quoteAll(items []string) string {
	q := make([]string, len(items))
	for i, s := range items {
		q[i] = strconv.Quote(s)
	}
	return "[" + strings.Join(q, ", ") + "]"
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
