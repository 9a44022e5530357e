package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/tidycsv/internal/utils"
)

func TestSiblingPath(t *testing.T) {
	cases := []struct {
		src, suffix, want string
	}{
		{filepath.Join("data", "sales.csv"), "-clean", filepath.Join("data", "sales-clean.csv")},
		{filepath.Join("data", "book.v2.xlsx"), "-clean", filepath.Join("data", "book.v2-clean.xlsx")},
		{"noext", "-clean", "noext-clean"},
	}
	for _, c := range cases {
		if got := utils.SiblingPath(c.src, c.suffix); got != c.want {
			t.Errorf("SiblingPath(%q) = %q, want %q", c.src, got, c.want)
		}
	}
}

func TestSafeWriteFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.csv")
	if err := utils.SafeWriteFile(p, []byte("a\n1\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "a\n1\n" {
		t.Fatalf("unexpected content %q", b)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := utils.ExpandHome("~/logs/run.log")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if want := filepath.Join(home, "logs", "run.log"); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got, _ := utils.ExpandHome("/abs/x"); got != "/abs/x" {
		t.Fatalf("absolute path changed: %q", got)
	}
}
