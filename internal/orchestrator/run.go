// Package orchestrator drives the top-level flow: it walks input files in
// order, asks the scanner for blocks, numbers them globally, consults the
// range filter, invokes the executor and comparator, and produces the
// final report and exit code.
package orchestrator

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"

	"github.com/kazz187/clitest/internal/cerr"
	"github.com/kazz187/clitest/internal/rangespec"
	"github.com/kazz187/clitest/internal/report"
	"github.com/kazz187/clitest/internal/scanner"
)

// Config is the immutable, fully-resolved configuration for one run: CLI
// flags already layered over runenv defaults.
type Config struct {
	Prefix           string // raw --prefix value, before shortcut expansion
	Prompt           string
	InlinePrefix     string
	DiffOptions      string
	Range            string
	StopOnFirstError bool
	ListMode         bool
	ListRun          bool
	Verbose          bool
	Quiet            bool
	UseColors        bool
	Shell            string
	Files            []string
}

// Run carries all mutable state for one invocation: resolved config, the
// range predicate, counters, the temp workspace, the logger, and the
// reporter. Nothing here is a package-level global.
type Run struct {
	Cfg Config

	rng    *rangespec.Range
	prefix string
	// startDir is the directory the runner was invoked from. It never
	// changes and is what --file references are resolved against.
	startDir string
	// workDir is the current directory the next block will run in. It is
	// reset to startDir at the top of each file and updated after each
	// block whose ending $PWD was captured, so a "cd" is visible to
	// subsequent blocks in the same file but not across files.
	workDir  string
	tempDir  string
	logger   *slog.Logger
	reporter *report.Reporter

	stdout io.Writer
	stderr io.Writer

	ordinal int

	totalTests    int
	totalFailures int
}

// New validates cfg, normalizes derived fields, and creates the run's
// private temp workspace. Callers must call Cleanup when done.
func New(cfg Config, stdout, stderr io.Writer, logger *slog.Logger) (*Run, error) {
	rng, err := rangespec.Parse(cfg.Range)
	if err != nil {
		return nil, err
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, cerr.Newf(err, "cannot determine working directory")
	}

	r := &Run{
		Cfg:      cfg,
		rng:      rng,
		prefix:   scanner.NormalizePrefix(cfg.Prefix),
		startDir: wd,
		workDir:  wd,
		logger:   logger,
		stdout:   stdout,
		stderr:   stderr,
		reporter: &report.Reporter{
			Out:   stdout,
			Color: cfg.UseColors,
			Quiet: cfg.Quiet,
		},
	}

	if !cfg.ListMode {
		if err := r.createWorkspace(); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (r *Run) createWorkspace() error {
	name := "clitest-" + ulid.Make().String()
	dir := filepath.Join(os.TempDir(), name)
	if err := os.Mkdir(dir, 0o700); err != nil {
		return cerr.Newf(err, "cannot create temp workspace")
	}
	r.tempDir = dir
	r.logger.Debug("created temp workspace", "dir", dir)
	return nil
}

// pwdFile is the sentinel path the executor writes a command's ending
// $PWD to, inside the run's own temp workspace. Empty if no workspace was
// created (--list mode never executes anything).
func (r *Run) pwdFile() string {
	if r.tempDir == "" {
		return ""
	}
	return filepath.Join(r.tempDir, ".pwd")
}

// Cleanup removes the temp workspace. Safe to call more than once and on
// every exit path, including after an operator error.
func (r *Run) Cleanup() {
	if r.tempDir == "" {
		return
	}
	if err := os.RemoveAll(r.tempDir); err != nil {
		fmt.Fprintf(r.stderr, "clitest: warning: failed to remove temp workspace %s: %v\n", r.tempDir, err)
	}
}

// ExitCode computes the final exit status from accumulated counters.
func (r *Run) ExitCode() int {
	if r.totalFailures > 0 {
		return cerr.CodeTestFailure.ExitStatus()
	}
	return cerr.CodeOK.ExitStatus()
}
