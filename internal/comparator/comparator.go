// Package comparator implements the mode-dispatched comparison between a
// block's expectation and the output actually captured by the executor.
package comparator

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/kazz187/clitest/internal/cerr"
	"github.com/kazz187/clitest/internal/scanner"
)

// Result is the outcome of comparing one block's expectation to its
// captured output.
type Result struct {
	Passed bool
	// Diff is a full unified diff (including the "--- "/"+++ " header
	// lines) describing the mismatch. Empty when Passed is true.
	Diff string
}

// Context is diff-rendering configuration, derived from --diff-options.
type Context struct {
	// Lines is the number of context lines shown around each hunk.
	Lines int
}

// Compare dispatches on block.Mode. baseDir resolves a relative --file
// reference path against the directory the runner was invoked from.
func Compare(block scanner.Block, captured []byte, ctx Context, baseDir string) (Result, error) {
	switch block.Mode {
	case scanner.ModeText:
		return compareBytes("expected", "actual", []byte(block.Expected+"\n"), captured, ctx)
	case scanner.ModeOutput:
		return compareBytes("expected", "actual", []byte(block.Expected), captured, ctx)
	case scanner.ModeFile:
		return compareFile(block, captured, ctx, baseDir)
	case scanner.ModeRegex:
		return compareRegex(block, captured, ctx)
	default:
		return Result{}, cerr.Newf(nil, "%s:%d: unknown comparison mode", block.SourceFile, block.SourceLine)
	}
}

func compareBytes(fromName, toName string, expected, actual []byte, ctx Context) (Result, error) {
	if string(expected) == string(actual) {
		return Result{Passed: true}, nil
	}
	diff, err := renderDiff(fromName, toName, string(expected), string(actual), ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{Passed: false, Diff: diff}, nil
}

func compareFile(block scanner.Block, captured []byte, ctx Context, baseDir string) (Result, error) {
	path := block.Expected
	if !isAbs(path) && baseDir != "" {
		path = baseDir + string(os.PathSeparator) + path
	}
	expected, err := os.ReadFile(path)
	if err != nil {
		return Result{}, cerr.Newf(err, "%s:%d: cannot read reference file %q", block.SourceFile, block.SourceLine, block.Expected)
	}
	return compareBytes(block.Expected, "actual", expected, captured, ctx)
}

func compareRegex(block scanner.Block, captured []byte, ctx Context) (Result, error) {
	re, err := regexp.CompilePOSIX(block.Expected)
	if err != nil {
		return Result{}, cerr.Newf(err, "%s:%d: invalid regular expression %q", block.SourceFile, block.SourceLine, block.Expected)
	}

	var lines []string
	if len(captured) > 0 {
		lines = strings.Split(strings.TrimSuffix(string(captured), "\n"), "\n")
	}
	for _, line := range lines {
		if re.MatchString(line) {
			return Result{Passed: true}, nil
		}
	}

	diff, err := renderDiff(block.Expected, "actual", block.Expected+"\n", string(captured), ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{Passed: false, Diff: diff}, nil
}

func renderDiff(fromName, toName, a, b string, ctx Context) (string, error) {
	n := ctx.Lines
	if n <= 0 {
		n = 3
	}
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: fromName,
		ToFile:   toName,
		Context:  n,
	}
	out, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("render diff: %w", err)
	}
	return out, nil
}

func isAbs(path string) bool {
	return strings.HasPrefix(path, "/")
}
