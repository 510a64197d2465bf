// Package report renders the user-facing output: the list/list-run
// listings, the per-failure diff report, and the final pass/fail summary.
// This is distinct from internal/clog's diagnostic logging.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const separatorWidth = 50

// Reporter writes the run's user-facing output to Out, honoring Color and
// Quiet.
type Reporter struct {
	Out   io.Writer
	Color bool
	Quiet bool
}

func (r *Reporter) colorer(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	if !r.Color {
		c.DisableColor()
	}
	return c
}

// ListLine renders one "<ordinal>\t<command>" listing line for --list.
func (r *Reporter) ListLine(ordinal int, command string) string {
	line := fmt.Sprintf("%d\t%s", ordinal, command)
	return r.colorer(color.FgBlue).Sprint(line)
}

// ListRunLine renders one annotated listing line for --list-run.
func (r *Reporter) ListRunLine(ordinal int, command string, passed bool) string {
	stamp := "FAIL"
	attr := color.FgRed
	if passed {
		stamp = "OK"
		attr = color.FgGreen
	}
	if !r.Color {
		return fmt.Sprintf("%d\t%s\t%s", ordinal, stamp, command)
	}
	return r.colorer(attr).Sprintf("%d\t%s\t%s", ordinal, stamp, command)
}

// FailureReport renders a failed block's separator-wrapped diff body, with
// the first two unified-diff header lines removed.
func (r *Reporter) FailureReport(ordinal int, command, diff string) string {
	sep := strings.Repeat("-", separatorWidth)
	body := stripDiffHeader(diff)

	var b strings.Builder
	red := r.colorer(color.FgRed)
	fmt.Fprintln(&b, red.Sprint(sep))
	fmt.Fprintln(&b, red.Sprintf("[FAILED #%d] %s", ordinal, command))
	if body != "" {
		fmt.Fprint(&b, red.Sprint(body))
		if !strings.HasSuffix(body, "\n") {
			fmt.Fprintln(&b)
		}
	}
	fmt.Fprint(&b, red.Sprint(sep))
	return b.String()
}

func stripDiffHeader(diff string) string {
	lines := strings.SplitAfter(diff, "\n")
	if len(lines) <= 2 {
		return ""
	}
	return strings.Join(lines[2:], "")
}

// FileStats renders one "<file>: P/T passed" line shown when more than one
// input file is given.
func (r *Reporter) FileStats(file string, passed, total int) string {
	return fmt.Sprintf("%s: %d/%d passed", file, passed, total)
}

// Summary renders the final celebratory-or-lament line described in the
// spec's "Final summary" table.
func Summary(total, failures int) string {
	passed := total - failures

	switch {
	case total == 1 && failures == 0:
		return "OK! The single test has passed."
	case total == 1 && failures == 1:
		return "FAIL: The single test has failed."
	case failures == 0:
		return fmt.Sprintf("%s All %d tests have passed.", winWord(passed), total)
	case failures == total:
		return fmt.Sprintf("%s All %d tests have failed.", loseWord(total), total)
	default:
		return fmt.Sprintf("FAIL: %d of %d tests have failed.", failures, total)
	}
}

func winWord(n int) string {
	switch {
	case n >= 100:
		return "YOU WIN! PERFECT!"
	case n >= 50:
		return "YOU WIN!"
	default:
		return "OK!"
	}
}

func loseWord(n int) string {
	if n >= 50 {
		return "EPIC FAIL!"
	}
	return "COMPLETE FAIL!"
}
