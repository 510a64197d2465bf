// Package rangespec parses the "-n/--number" range expression ("1,3,5-8")
// into a membership predicate over 1-based test ordinals.
package rangespec

import (
	"strconv"
	"strings"

	"github.com/kazz187/clitest/internal/cerr"
)

// Range is the parsed membership predicate produced by Parse.
type Range struct {
	// active is false when the expression filters nothing (empty or "0").
	active  bool
	singles map[int]struct{}
	spans   [][2]int // inclusive, lo <= hi
}

// Parse parses a range expression of the form "part(,part)*" where part is
// either a positive integer or "n-m". A reversed span ("8-5") is accepted
// and treated the same as "5-8". The literal "0" is ignored for each part;
// an empty expression or the literal "0" alone means "no filter".
func Parse(expr string) (*Range, error) {
	r := &Range{singles: map[int]struct{}{}}

	trimmed := strings.TrimSpace(expr)
	if trimmed == "" || trimmed == "0" {
		return r, nil
	}

	for _, c := range trimmed {
		if !(c >= '0' && c <= '9') && c != ',' && c != '-' {
			return nil, cerr.New("invalid argument for -n or --number", nil)
		}
	}

	r.active = true
	for _, part := range strings.Split(trimmed, ",") {
		if part == "" {
			return nil, cerr.New("invalid argument for -n or --number", nil)
		}
		if part == "0" {
			continue
		}
		if idx := strings.IndexByte(part, '-'); idx >= 0 {
			loStr, hiStr := part[:idx], part[idx+1:]
			lo, errLo := strconv.Atoi(loStr)
			hi, errHi := strconv.Atoi(hiStr)
			if errLo != nil || errHi != nil || lo <= 0 || hi <= 0 {
				return nil, cerr.New("invalid argument for -n or --number", nil)
			}
			if lo > hi {
				lo, hi = hi, lo
			}
			r.spans = append(r.spans, [2]int{lo, hi})
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			return nil, cerr.New("invalid argument for -n or --number", nil)
		}
		r.singles[n] = struct{}{}
	}

	if len(r.singles) == 0 && len(r.spans) == 0 {
		// Every part was "0": compatibility says that is "no filter".
		r.active = false
	}

	return r, nil
}

// Member reports whether ordinal k passes the range filter. A nil Range or
// an inactive Range (no filter configured) matches everything.
func (r *Range) Member(k int) bool {
	if r == nil || !r.active {
		return true
	}
	if _, ok := r.singles[k]; ok {
		return true
	}
	for _, span := range r.spans {
		if k >= span[0] && k <= span[1] {
			return true
		}
	}
	return false
}

// Active reports whether a non-trivial filter is in effect.
func (r *Range) Active() bool {
	return r != nil && r.active
}
