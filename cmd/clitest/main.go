// Command clitest scans documentation-embedded shell examples, runs them
// through a real shell, and reports which ones still match their expected
// output.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"

	"github.com/kazz187/clitest/internal/cerr"
	"github.com/kazz187/clitest/internal/clog"
	"github.com/kazz187/clitest/internal/orchestrator"
	"github.com/kazz187/clitest/internal/runenv"
	"github.com/kazz187/clitest/internal/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	env, err := runenv.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "clitest: Error: %s\n", err.Error())
		return cerr.CodeOperator.ExitStatus()
	}

	app := kingpin.New("clitest", "Run and verify shell command examples embedded in documentation.")
	app.Version(version.Get())
	app.HelpFlag.Short('h')
	app.VersionFlag.Short('V')

	first := app.Flag("first", "Stop after the first failure.").Short('1').Bool()
	list := app.Flag("list", "List the discovered blocks without executing them.").Short('l').Bool()
	listRun := app.Flag("list-run", "List blocks annotated with OK/FAIL.").Short('L').Bool()
	quiet := app.Flag("quiet", "Suppress normal output.").Short('q').Bool()
	verbose := app.Flag("verbose", "Echo each command before running it.").Short('v').Bool()
	numberRange := app.Flag("number", "Restrict execution to the given ordinal or range.").Short('n').String()
	noColor := app.Flag("no-color", "Disable ANSI color in output.").Bool()
	prefix := app.Flag("prefix", "Required per-line prefix for example blocks.").String()
	prompt := app.Flag("prompt", "Prompt marker introducing a command line.").Default("$ ").String()
	inlinePrefix := app.Flag("inline-prefix", "Inline command/expected separator.").Default("#→ ").String()
	diffOptions := app.Flag("diff-options", "Options passed to the unified-diff renderer.").Default(env.DiffOptions).String()
	shell := app.Flag("shell", "Shell binary used to execute each command.").Default(env.Shell).String()
	files := app.Arg("file", "Input file(s) to scan.").Required().Strings()

	if _, err := app.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "clitest: Error: %s\n", err.Error())
		return cerr.CodeOperator.ExitStatus()
	}

	useColors := !*noColor && !env.NoColor && isTerminal(os.Stdout)

	logger := slog.New(clog.New(os.Stderr, clog.Config{
		Color: useColors,
		Level: logLevel(*verbose, env),
	}))

	cfg := orchestrator.Config{
		Prefix:           *prefix,
		Prompt:           *prompt,
		InlinePrefix:     *inlinePrefix,
		DiffOptions:      *diffOptions,
		Range:            *numberRange,
		StopOnFirstError: *first,
		ListMode:         *list,
		ListRun:          *listRun,
		Verbose:          *verbose,
		Quiet:            *quiet,
		UseColors:        useColors,
		Shell:            *shell,
		Files:            *files,
	}

	r, err := orchestrator.New(cfg, os.Stdout, os.Stderr, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clitest: Error: %s\n", err.Error())
		return cerr.CodeOperator.ExitStatus()
	}
	defer r.Cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return orchestrator.Execute(ctx, r)
}

// logLevel picks the diagnostic log level: --verbose forces debug, otherwise
// the CLITEST_LOG_LEVEL environment default applies.
func logLevel(verbose bool, env *runenv.Env) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return env.SlogLevel()
}

// isTerminal reports whether f looks like an interactive terminal, used to
// suppress color automatically when output is redirected to a file or pipe.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
