// Package batch scores many feature vectors, one per line, with the same
// handler the interactive front-end uses.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Veraticus/fraudwatch/internal/inference"
	"github.com/schollz/progressbar/v3"
)

// maxLineBytes bounds a single input line; 30 numbers fit easily.
const maxLineBytes = 1 << 20

// Scorer is the subset of inference.Handler the runner needs.
type Scorer interface {
	Handle(input string) inference.Result
}

// Summary counts the outcomes of a batch run.
type Summary struct {
	Total  int
	Fraud  int
	Safe   int
	Failed int
}

// Runner scores input lines and writes one result line per vector.
type Runner struct {
	scorer   Scorer
	out      io.Writer
	progress io.Writer
}

// NewRunner creates a runner writing results to out and the progress bar to
// progress. A nil progress writer disables the bar.
func NewRunner(scorer Scorer, out, progress io.Writer) *Runner {
	return &Runner{scorer: scorer, out: out, progress: progress}
}

type inputLine struct {
	text   string
	number int
}

// Run scores every vector in r as it is read. Blank lines and lines starting
// with '#' are skipped. A failing vector is counted and reported but never
// stops the run; only I/O errors and context cancellation do. Cancellation is
// honored between lines even while a read is blocked on a slow or interactive
// input.
func (r *Runner) Run(ctx context.Context, in io.Reader) (Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines, readErr := scanLines(ctx, in)

	var (
		summary Summary
		bar     *progressbar.ProgressBar
	)
	defer func() {
		if bar == nil {
			return
		}
		if err := bar.Finish(); err != nil {
			slog.Warn("Failed to finish progress bar", "error", err)
		}
	}()

	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		var line inputLine
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		case next, ok := <-lines:
			if !ok {
				return summary, <-readErr
			}
			line = next
		}

		res := r.scorer.Handle(line.text)
		summary.record(res)

		if _, err := fmt.Fprintln(r.out, FormatLine(line.number, res)); err != nil {
			return summary, fmt.Errorf("failed to write result: %w", err)
		}

		if bar == nil {
			bar = r.newProgressBar()
		}
		if bar != nil {
			if err := bar.Add(1); err != nil {
				slog.Warn("Failed to update progress bar", "error", err)
			}
		}
	}
}

// FormatLine renders one result on a single line.
func FormatLine(number int, res inference.Result) string {
	text := strings.ReplaceAll(res.Text, "\n", " | ")
	return fmt.Sprintf("line %d [%s] %s", number, res.Severity, text)
}

func (s *Summary) record(res inference.Result) {
	s.Total++
	switch {
	case !res.OK():
		s.Failed++
	case res.Verdict.IsFraud():
		s.Fraud++
	default:
		s.Safe++
	}
}

// newProgressBar returns a spinner-style bar, since the number of lines is
// unknown until the input ends.
func (r *Runner) newProgressBar() *progressbar.ProgressBar {
	if r.progress == nil {
		return nil
	}

	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(r.progress),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetItsString("tx"),
		progressbar.OptionShowIts(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetSpinnerChangeInterval(0),
		progressbar.OptionSetDescription("[cyan][bold]Scoring transactions...[reset]"),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(r.progress); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

// scanLines reads in on its own goroutine so the caller can stop waiting on
// cancellation. The goroutine may stay blocked in a read until in is closed.
// The error channel receives exactly one value before lines is closed.
func scanLines(ctx context.Context, in io.Reader) (<-chan inputLine, <-chan error) {
	lines := make(chan inputLine)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

		number := 0
		for scanner.Scan() {
			number++
			text := strings.TrimSpace(scanner.Text())
			if text == "" || strings.HasPrefix(text, "#") {
				continue
			}

			select {
			case lines <- inputLine{text: text, number: number}:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}

		if err := scanner.Err(); err != nil {
			errc <- fmt.Errorf("failed to read input: %w", err)
			return
		}
		errc <- nil
	}()

	return lines, errc
}
