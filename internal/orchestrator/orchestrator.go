package orchestrator

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kazz187/clitest/internal/cerr"
	"github.com/kazz187/clitest/internal/comparator"
	"github.com/kazz187/clitest/internal/executor"
	"github.com/kazz187/clitest/internal/report"
	"github.com/kazz187/clitest/internal/safe"
	"github.com/kazz187/clitest/internal/scanner"
	"github.com/kazz187/clitest/internal/shellfmt"
)

// fileResult is one file's contribution to the aggregate counters, kept
// around only long enough to print the multi-file stats block.
type fileResult struct {
	name            string
	tests, failures int
}

// stopRequested signals that --first triggered early termination right
// after the one failure it permits was reported.
type stopRequested struct{}

func (stopRequested) Error() string { return "stopped after first failure" }

// Execute drives the whole run: every input file, in order, then the
// aggregate summary. It returns the process exit code; the caller is
// responsible for calling Cleanup once Execute returns, on every path.
func Execute(ctx context.Context, r *Run) int {
	diffCtx, err := parseDiffOptions(r.Cfg.DiffOptions)
	if err != nil {
		r.fail(err)
		return cerr.CodeOperator.ExitStatus()
	}

	var results []fileResult
	stopped := false

	for _, name := range r.Cfg.Files {
		tests, failures, fileErr := r.processFile(ctx, name, diffCtx)
		results = append(results, fileResult{name, tests, failures})
		r.totalTests += tests
		r.totalFailures += failures

		if fileErr != nil {
			if _, ok := fileErr.(stopRequested); ok {
				stopped = true
				break
			}
			r.fail(fileErr)
			return cerr.CodeOperator.ExitStatus()
		}
	}

	if !stopped && r.totalTests == 0 {
		if r.rng.Active() {
			r.fail(cerr.New("no test found for the specified number or range", nil))
		} else {
			r.fail(cerr.New("no test found in input file", nil))
		}
		return cerr.CodeOperator.ExitStatus()
	}

	r.printFileStats(results)
	r.printSummary()

	if stopped {
		return cerr.CodeTestFailure.ExitStatus()
	}
	return r.ExitCode()
}

func (r *Run) processFile(ctx context.Context, name string, diffCtx comparator.Context) (tests, failures int, err error) {
	raw, readErr := os.ReadFile(name)
	if readErr != nil {
		return 0, 0, cerr.Newf(readErr, "cannot read %s", name)
	}

	content := scanner.NormalizeNewlines(string(raw))
	blocks, scanErr := scanner.Scan(name, content, scanner.Config{
		Prefix:       r.prefix,
		Prompt:       r.Cfg.Prompt,
		InlinePrefix: r.Cfg.InlinePrefix,
	})
	if scanErr != nil {
		return 0, 0, cerr.Newf(scanErr, "failed to parse %s", name)
	}

	if len(r.Cfg.Files) > 1 && !r.Cfg.Quiet {
		fmt.Fprintf(r.stdout, "=== %s ===\n", name)
	}

	// The working directory resets to the invocation directory at the
	// start of every file; a "cd" only carries over between blocks within
	// the same file.
	r.workDir = r.startDir

	for _, block := range blocks {
		r.ordinal++
		ordinal := r.ordinal
		if !r.rng.Member(ordinal) {
			continue
		}
		tests++

		rendered := shellfmt.Render(block.Command)

		if r.Cfg.ListMode {
			fmt.Fprintln(r.stdout, r.reporter.ListLine(ordinal, rendered))
			continue
		}

		if r.Cfg.Verbose && !r.Cfg.Quiet {
			fmt.Fprintf(r.stdout, "+ %s\n", rendered)
		}

		var res comparator.Result
		runErr := safe.Guard(func() error {
			var innerErr error
			res, innerErr = r.runOne(ctx, block, ordinal, name, diffCtx)
			return innerErr
		})
		if runErr != nil {
			return tests, failures, runErr
		}

		if r.Cfg.ListRun {
			fmt.Fprintln(r.stdout, r.reporter.ListRunLine(ordinal, rendered, res.Passed))
			if !res.Passed {
				failures++
			}
			continue
		}

		if !res.Passed {
			failures++
			if !r.Cfg.Quiet {
				fmt.Fprintln(r.stdout, r.reporter.FailureReport(ordinal, rendered, res.Diff))
			}
			if r.Cfg.StopOnFirstError {
				return tests, failures, stopRequested{}
			}
		}
	}

	if tests == 0 && !r.rng.Active() {
		return 0, 0, cerr.New("no test found in input file: "+name, nil)
	}

	return tests, failures, nil
}

func (r *Run) runOne(ctx context.Context, block scanner.Block, ordinal int, file string, diffCtx comparator.Context) (comparator.Result, error) {
	res, execErr := executor.Run(ctx, executor.Config{
		Shell:   r.Cfg.Shell,
		Dir:     r.workDir,
		PWDFile: r.pwdFile(),
	}, block.Command, ordinal, file)
	if execErr != nil {
		return comparator.Result{}, execErr
	}
	if res.EndDir != "" {
		r.workDir = res.EndDir
	}
	return comparator.Compare(block, res.Output, diffCtx, r.startDir)
}

func (r *Run) printFileStats(results []fileResult) {
	if len(results) <= 1 || r.Cfg.Quiet || r.Cfg.ListMode {
		return
	}
	for _, res := range results {
		fmt.Fprintln(r.stdout, r.reporter.FileStats(res.name, res.tests-res.failures, res.tests))
	}
}

func (r *Run) printSummary() {
	if r.Cfg.Quiet || r.Cfg.ListMode {
		return
	}
	fmt.Fprintln(r.stdout, report.Summary(r.totalTests, r.totalFailures))
}

func (r *Run) fail(err error) {
	fmt.Fprintf(r.stderr, "clitest: Error: %s\n", err.Error())
}

func parseDiffOptions(opts string) (comparator.Context, error) {
	opts = strings.TrimSpace(opts)
	if opts == "" || opts == "-u" {
		return comparator.Context{Lines: 3}, nil
	}
	if strings.HasPrefix(opts, "-u") {
		numStr := strings.TrimPrefix(opts, "-u")
		if n, err := strconv.Atoi(numStr); err == nil && n >= 0 {
			return comparator.Context{Lines: n}, nil
		}
	}
	// Anything else is accepted as a cosmetic pass-through we don't
	// interpret further; fall back to the default context width.
	return comparator.Context{Lines: 3}, nil
}
