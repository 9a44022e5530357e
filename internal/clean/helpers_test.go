package clean

import (
	"context"
	"strings"
	"testing"

	"github.com/KaramelBytes/tidycsv/internal/dataset"
)

// scriptedAsker answers from a fixed list and records the questions it saw.
type scriptedAsker struct {
	answers []string
	asked   []string
	err     error
}

func (s *scriptedAsker) Ask(_ context.Context, options []string, text string) (string, error) {
	s.asked = append(s.asked, text)
	if s.err != nil {
		return "", s.err
	}
	if len(s.answers) == 0 {
		panic("scriptedAsker: no answers left for " + text)
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func mustRead(t *testing.T, content string) *dataset.Dataset {
	t.Helper()
	d, err := dataset.ReadDelimited(strings.NewReader(content), "t.csv", dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return d
}

func records(d *dataset.Dataset) [][]string {
	out := make([][]string, d.NumRows())
	for i := range out {
		out[i] = d.Record(i)
	}
	return out
}
