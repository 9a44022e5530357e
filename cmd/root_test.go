package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/tidycsv/internal/clean"
	"github.com/KaramelBytes/tidycsv/internal/prompt"
)

const messyCSV = " Name ,Age ,Notes\n" +
	"ann,30,\n" +
	"bob,30,\n" +
	"cy,30,\n" +
	"dan,5000,\n" +
	"eve,,\n" +
	"fay,,\n" +
	"ann,30,\n"

// resetFlags clears values and Changed state that persist across Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// runCmd executes the root command with args and stdin, isolated under a temp HOME.
func runCmd(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return cliResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return p
}

func TestCLI_CleanEndToEnd(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	input := writeInput(t, home, "people.csv", messyCSV)
	logPath := filepath.Join(home, "logs", "run.log")

	r := runCmd(t, "first\nimpute\n", input, "--log-file", logPath)
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "[DATA PROFILE]")
	assert.Contains(t, r.stdout, "✓ Saved cleaned data to")
	assert.Contains(t, r.stderr, "cleaned file saved")

	got, err := os.ReadFile(filepath.Join(home, "people-clean.csv"))
	require.NoError(t, err)
	assert.Equal(t, "name,age\nann,30\nbob,30\ncy,30\ndan,5000\neve,30\nfay,30\n", string(got))

	logged, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "outliers present, imputing with the median")
	assert.Contains(t, string(logged), "run_id")
	assert.Contains(t, string(logged), input)
}

func TestCLI_ArgumentCount(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	for _, args := range [][]string{{}, {"a.csv", "b.csv"}} {
		r := runCmd(t, "", args...)
		var inv *InvalidInvocationError
		require.ErrorAs(t, r.err, &inv, "args %v", args)

		var buf bytes.Buffer
		assert.Equal(t, 2, report(&buf, r.err))
		assert.Contains(t, buf.String(), "csv file as argument")
		assert.Contains(t, buf.String(), "Usage: tidycsv <file>")
	}
}

func TestCLI_UnknownFlagIsInvalidInvocation(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	r := runCmd(t, "", "--no-such-flag", "x.csv")
	var inv *InvalidInvocationError
	require.ErrorAs(t, r.err, &inv)
}

func TestCLI_ExhaustedRetries(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	input := writeInput(t, home, "people.csv", messyCSV)

	r := runCmd(t, "maybe\nnope\nboth\n", input, "--log-file", "")
	require.ErrorIs(t, r.err, prompt.ErrExhaustedRetries)
	assert.Equal(t, 3, strings.Count(r.stdout, "keep the 'first' or 'last'"))

	var buf bytes.Buffer
	assert.Equal(t, 1, report(&buf, r.err))
	assert.Contains(t, buf.String(), "Please restart the program")

	_, err := os.Stat(filepath.Join(home, "people-clean.csv"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCLI_MaxAttemptsFlag(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	input := writeInput(t, home, "people.csv", messyCSV)

	r := runCmd(t, "a\nb\nfirst\nimpute\n", input, "--log-file", "", "--max-attempts", "2")
	require.ErrorIs(t, r.err, prompt.ErrExhaustedRetries)
	assert.Equal(t, 2, strings.Count(r.stdout, "keep the 'first' or 'last'"))
}

func TestCLI_EnforceCSVExtension(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	input := writeInput(t, home, "data.tsv", "a\tb\n1\t2\n")

	r := runCmd(t, "", input, "--log-file", "", "--enforce-csv")
	require.ErrorIs(t, r.err, clean.ErrWrongExtension)

	r = runCmd(t, "", input, "--log-file", "")
	require.NoError(t, r.err)
	_, err := os.Stat(filepath.Join(home, "data-clean.tsv"))
	assert.NoError(t, err)
}

func TestCLI_InvalidRoundingFlag(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	input := writeInput(t, home, "people.csv", messyCSV)
	r := runCmd(t, "", input, "--log-file", "", "--mean-rounding", "banker")
	var inv *InvalidInvocationError
	require.ErrorAs(t, r.err, &inv)
}

func TestCLI_Profile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	input := writeInput(t, home, "people.csv", messyCSV)

	r := runCmd(t, "", "profile", input)
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "[DATA PROFILE]")
	assert.Contains(t, r.stdout, "Duplicates: 1")
	assert.NotContains(t, r.stdout, "would you like")

	out := filepath.Join(home, "profile.md")
	r = runCmd(t, "", "profile", input, "-o", out)
	require.NoError(t, r.err)
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), "[SCHEMA]")
	_, err = os.Stat(filepath.Join(home, "people-clean.csv"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "profile never writes a cleaned file")
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	r := runCmd(t, "", "config", "set", "max_attempts", "5")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Saved config")
	_, err := os.Stat(filepath.Join(home, ".tidycsv", "config.yaml"))
	require.NoError(t, err)

	r = runCmd(t, "", "config", "set", "mean_rounding", "whole_number")
	require.NoError(t, r.err)

	r = runCmd(t, "", "config", "show")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "max_attempts: 5")
	assert.Contains(t, r.stdout, "mean_rounding: whole_number")

	r = runCmd(t, "", "config", "set", "mean_rounding", "banker")
	assert.Error(t, r.err)
	r = runCmd(t, "", "config", "set", "nope", "1")
	assert.Error(t, r.err)
}
