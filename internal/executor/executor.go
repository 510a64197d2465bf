// Package executor runs a single block's command through a real shell and
// captures its merged standard output/error.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/kazz187/clitest/internal/cerr"
)

// Config controls how commands are executed.
type Config struct {
	// Shell is the shell binary invoked as "<Shell> -c <command>".
	Shell string
	// Dir is the working directory the command starts in.
	Dir string
	// PWDFile, when set, is a path inside the run's temp workspace. Run
	// appends a trailer to the command that records the shell's ending
	// $PWD there, so the caller can thread a directory change (e.g. "cd")
	// through to the next block in the same file. Empty disables the
	// capture and leaves Result.EndDir empty.
	PWDFile string
}

// Result is what a single execution produced. ExitCode is recorded for
// diagnostics but never affects pass/fail — only Output does.
type Result struct {
	ExitCode int
	Output   []byte
	// EndDir is the command's ending working directory, captured via
	// PWDFile. Empty if PWDFile was unset or the trailer never ran (e.g.
	// the command replaced the shell process with "exec").
	EndDir string
}

// Run executes command through cfg.Shell -c, with stdin attached to
// /dev/null, merged stdout+stderr capture, and the environment inherited
// plus two diagnostic variables identifying the test. It never times out
// and never runs more than one command concurrently.
func Run(ctx context.Context, cfg Config, command string, ordinal int, sourceFile string) (Result, error) {
	shell := cfg.Shell
	if shell == "" {
		shell = "/bin/sh"
	}

	script := command
	if cfg.PWDFile != "" {
		os.Remove(cfg.PWDFile)
		script = fmt.Sprintf("%s\nclitest_ec=$?\nprintf '%%s' \"$PWD\" > %s\nexit \"$clitest_ec\"", command, shellQuote(cfg.PWDFile))
	}

	cmd := exec.CommandContext(ctx, shell, "-c", script)
	cmd.Dir = cfg.Dir
	cmd.Env = append(os.Environ(),
		"CLITEST_ORDINAL="+strconv.Itoa(ordinal),
		"CLITEST_SOURCE_FILE="+sourceFile,
	)

	devNull, err := os.Open(os.DevNull)
	if err != nil {
		return Result{}, cerr.Newf(err, "cannot open %s for command stdin", os.DevNull)
	}
	defer devNull.Close()
	cmd.Stdin = devNull

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	runErr := cmd.Run()

	exitCode := 0
	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		exitCode = 0
	case asExitError(runErr, &exitErr):
		exitCode = exitErr.ExitCode()
	default:
		// The shell itself could not be started: missing binary, no
		// permission, etc. That is an operator error, not test output.
		return Result{}, cerr.Newf(runErr, "failed to run %s", shell)
	}

	var endDir string
	if cfg.PWDFile != "" {
		if data, readErr := os.ReadFile(cfg.PWDFile); readErr == nil {
			endDir = string(data)
		}
	}

	return Result{ExitCode: exitCode, Output: buf.Bytes(), EndDir: endDir}, nil
}

// shellQuote single-quotes s for safe interpolation into a generated "sh -c"
// script, escaping any embedded single quotes.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func asExitError(err error, target **exec.ExitError) bool {
	ee, ok := err.(*exec.ExitError)
	if !ok {
		return false
	}
	*target = ee
	return true
}
