package clean

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/KaramelBytes/tidycsv/internal/prompt"
)

const dupCSV = "id,v\n" +
	"a,1\n" +
	"b,2\n" +
	"a,1\n" +
	"c,3\n" +
	"b,2\n" +
	"a,1\n"

func TestDropDuplicatesKeepFirst(t *testing.T) {
	d := mustRead(t, dupCSV)
	want := d.DuplicateCount()
	removed := DropDuplicates(d, KeepFirst)
	assert.Equal(t, want, removed)
	assert.Equal(t, 3, removed)
	if diff := cmp.Diff([][]string{{"a", "1"}, {"b", "2"}, {"c", "3"}}, records(d)); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestDropDuplicatesKeepLast(t *testing.T) {
	d := mustRead(t, dupCSV)
	removed := DropDuplicates(d, KeepLast)
	assert.Equal(t, 3, removed)
	if diff := cmp.Diff([][]string{{"c", "3"}, {"b", "2"}, {"a", "1"}}, records(d)); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestDuplicatePolicy_NoDuplicatesSkipsPrompt(t *testing.T) {
	d := mustRead(t, "a\n1\n2\n")
	asker := &scriptedAsker{}
	p := &DuplicatePolicy{Asker: asker, Logger: zap.NewNop()}
	out, err := p.Resolve(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, DuplicateOutcome{}, out)
	assert.Empty(t, asker.asked)
}

func TestDuplicatePolicy_AppliesAnswer(t *testing.T) {
	d := mustRead(t, dupCSV)
	asker := &scriptedAsker{answers: []string{"last"}}
	p := &DuplicatePolicy{Asker: asker, Logger: zap.NewNop()}
	out, err := p.Resolve(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, DuplicateOutcome{Found: 3, Keep: KeepLast, Removed: 3}, out)
	assert.Equal(t, []string{duplicatePrompt}, asker.asked)
	assert.Equal(t, 3, d.NumRows())
}

func TestDuplicatePolicy_ExhaustedLeavesDataUntouched(t *testing.T) {
	d := mustRead(t, dupCSV)
	asker := &scriptedAsker{err: &prompt.ExhaustedRetriesError{Attempts: 3}}
	p := &DuplicatePolicy{Asker: asker, Logger: zap.NewNop()}
	_, err := p.Resolve(context.Background(), d)
	require.ErrorIs(t, err, prompt.ErrExhaustedRetries)
	assert.Equal(t, 6, d.NumRows())
}
