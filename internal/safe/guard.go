// Package safe guards a single block's execute-then-compare step against a
// runtime panic (a pathological regex, a malformed reference file) so that
// one bad block cannot crash an otherwise-healthy run.
package safe

import (
	"github.com/sourcegraph/conc/panics"

	"github.com/kazz187/clitest/internal/cerr"
)

// Guard runs fn, converting any panic into an operator error instead of
// letting it unwind past the orchestrator. This is used in a single
// goroutine per the run's sequential scheduling model; conc/panics is used
// here purely for its panic-to-error conversion, not for concurrency.
func Guard(fn func() error) (err error) {
	var catcher panics.Catcher
	catcher.Try(func() {
		err = fn()
	})
	if recovered := catcher.Recovered(); recovered != nil {
		return cerr.Newf(recovered.AsError(), "panic while evaluating test block")
	}
	return err
}
