// Package prompt asks interactive questions with a bounded number of attempts.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DefaultMaxAttempts is used when a Prompter is built with a non-positive budget.
const DefaultMaxAttempts = 3

// ErrExhaustedRetries matches every ExhaustedRetriesError via errors.Is.
var ErrExhaustedRetries = errors.New("exhausted retries")

// ExhaustedRetriesError is returned when no valid answer arrived within the attempt budget.
type ExhaustedRetriesError struct {
	Attempts int
	Options  []string
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("no valid answer after %d attempts (expected one of: %s)", e.Attempts, strings.Join(e.Options, ", "))
}

func (e *ExhaustedRetriesError) Is(target error) bool { return target == ErrExhaustedRetries }

// Prompter reads answers line by line from in and writes questions to out.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	maxAttempts int
}

// New returns a Prompter. maxAttempts <= 0 falls back to DefaultMaxAttempts.
func New(in io.Reader, out io.Writer, maxAttempts int) *Prompter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Prompter{in: bufio.NewReader(in), out: out, maxAttempts: maxAttempts}
}

// MaxAttempts returns the attempt budget per question.
func (p *Prompter) MaxAttempts() int { return p.maxAttempts }

// Ask writes text and reads a line until the lowercased, trimmed answer is one
// of options. Matching is exact; end of input counts as an invalid attempt.
func (p *Prompter) Ask(ctx context.Context, options []string, text string) (string, error) {
	valid := make(map[string]bool, len(options))
	for _, o := range options {
		valid[strings.ToLower(o)] = true
	}
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if _, err := io.WriteString(p.out, text); err != nil {
			return "", fmt.Errorf("write prompt: %w", err)
		}
		line, err := p.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read answer: %w", err)
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		if valid[answer] {
			return answer, nil
		}
		if errors.Is(err, io.EOF) {
			// input closed; end the echoed prompt line
			fmt.Fprintln(p.out)
		}
	}
	return "", &ExhaustedRetriesError{Attempts: p.maxAttempts, Options: append([]string(nil), options...)}
}
