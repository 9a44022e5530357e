package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tidycsv/internal/analysis"
	"github.com/KaramelBytes/tidycsv/internal/clean"
	"github.com/KaramelBytes/tidycsv/internal/dataset"
	"github.com/KaramelBytes/tidycsv/internal/utils"
)

var (
	profOutputPath string
	profThousands  string
)

var profileCmd = &cobra.Command{
	Use:   "profile <file>",
	Short: "Print the data profile of a file without cleaning it",
	Args:  exactlyOneFile,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := effectiveConfig()
		if err != nil {
			return err
		}
		opt, err := datasetOptions(c)
		if err != nil {
			return &InvalidInvocationError{Reason: err.Error(), Usage: cmd.UseLine()}
		}
		switch strings.ToLower(strings.TrimSpace(profThousands)) {
		case "":
		case ",":
			opt.ThousandsSeparator = ','
		case ".":
			opt.ThousandsSeparator = '.'
		case "space", " ":
			opt.ThousandsSeparator = ' '
		default:
			return &InvalidInvocationError{Reason: fmt.Sprintf("unsupported --thousands: %s (use ','|'.'|'space')", profThousands), Usage: cmd.UseLine()}
		}

		path := args[0]
		if c.EnforceCSVExtension && !dataset.HasCSVExtension(path) {
			return &clean.WrongExtensionError{Path: path, Ext: filepath.Ext(path)}
		}
		if _, err := os.Stat(path); err != nil {
			return &clean.UnreadableFileError{Path: path, Err: err}
		}
		ds, err := dataset.Load(path, opt)
		if err != nil {
			return err
		}
		md := analysis.ProfileDataset(ds).Markdown()

		if profOutputPath != "" {
			if err := utils.SafeWriteFile(profOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote profile to %s\n", profOutputPath)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringVarP(&profOutputPath, "output", "o", "", "optional path to write the profile (Markdown)")
	profileCmd.Flags().StringVar(&profThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space'")
}
