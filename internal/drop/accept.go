package drop

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Acceptor decides whether a dragged payload carries an accepted item type.
// Adapters consult it before reporting enter or a drop, so payloads without
// an accepted type never reach the machine.
type Acceptor struct {
	patterns []string
	globs    []glob.Glob
}

// NewAcceptor compiles the accepted type patterns, e.g. "text/uri-list" or "text/*"
func NewAcceptor(patterns ...string) (*Acceptor, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no accepted types")
	}
	a := &Acceptor{patterns: patterns}
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid accepted type %q: %w", p, err)
		}
		a.globs = append(a.globs, g)
	}
	return a, nil
}

// MustAcceptor is NewAcceptor for patterns known to be valid
func MustAcceptor(patterns ...string) *Acceptor {
	a, err := NewAcceptor(patterns...)
	if err != nil {
		panic(err)
	}
	return a
}

// IsAcceptable reports whether any candidate type matches an accepted pattern
func (a *Acceptor) IsAcceptable(candidateTypes []string) bool {
	for _, c := range candidateTypes {
		for _, g := range a.globs {
			if g.Match(c) {
				return true
			}
		}
	}
	return false
}

// Patterns returns the accepted type patterns
func (a *Acceptor) Patterns() []string {
	out := make([]string, len(a.patterns))
	copy(out, a.patterns)
	return out
}
