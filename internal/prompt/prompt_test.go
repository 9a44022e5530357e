package prompt

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const question = "keep 'first' or 'last': "

func TestAsk_AllInvalidExhaustsBudget(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("x\ny\nz\nfirst\n"), &out, 3)

	got, err := p.Ask(context.Background(), []string{"first", "last"}, question)
	assert.Empty(t, got)
	require.ErrorIs(t, err, ErrExhaustedRetries)

	var ex *ExhaustedRetriesError
	require.True(t, errors.As(err, &ex))
	assert.Equal(t, 3, ex.Attempts)
	assert.Equal(t, 3, strings.Count(out.String(), question))
}

func TestAsk_ValidOnSecondAttemptStops(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("nope\nLAST\nfirst\n"), &out, 3)

	got, err := p.Ask(context.Background(), []string{"first", "last"}, question)
	require.NoError(t, err)
	assert.Equal(t, "last", got)
	assert.Equal(t, 2, strings.Count(out.String(), question))
}

func TestAsk_NoPartialMatch(t *testing.T) {
	p := New(strings.NewReader("fir\nfirsts\n"), &bytes.Buffer{}, 2)
	_, err := p.Ask(context.Background(), []string{"first", "last"}, question)
	assert.ErrorIs(t, err, ErrExhaustedRetries)
}

func TestAsk_TrimsWhitespaceAndCarriageReturn(t *testing.T) {
	p := New(strings.NewReader("  Impute \r\n"), &bytes.Buffer{}, 3)
	got, err := p.Ask(context.Background(), []string{"impute", "keep", "drop"}, "? ")
	require.NoError(t, err)
	assert.Equal(t, "impute", got)
}

func TestAsk_AnswerWithoutTrailingNewline(t *testing.T) {
	p := New(strings.NewReader("drop"), &bytes.Buffer{}, 3)
	got, err := p.Ask(context.Background(), []string{"drop", "impute"}, "? ")
	require.NoError(t, err)
	assert.Equal(t, "drop", got)
}

func TestAsk_ClosedInputCountsAttempts(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader(""), &out, 3)
	_, err := p.Ask(context.Background(), []string{"first"}, question)
	assert.ErrorIs(t, err, ErrExhaustedRetries)
	assert.Equal(t, 3, strings.Count(out.String(), question))
}

func TestAsk_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	p := New(strings.NewReader("first\n"), &out, 3)
	_, err := p.Ask(ctx, []string{"first"}, question)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestNew_DefaultBudget(t *testing.T) {
	assert.Equal(t, DefaultMaxAttempts, New(strings.NewReader(""), &bytes.Buffer{}, 0).MaxAttempts())
}
