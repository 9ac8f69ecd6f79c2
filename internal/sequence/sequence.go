// Package sequence issues document numbers of the form PREFIX/SCOPE/NNN,
// scoped to the Indian April-March financial year.
package sequence

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LastIssuedFinder returns the identifier with the highest numeric counter
// after prefix, or "" when none exists. Identifiers whose suffix is not a
// plain number are ignored. Implementations must run inside the caller's exclusive
// write transaction so that the read and the subsequent insert are serialized.
type LastIssuedFinder interface {
	LastNumber(ctx context.Context, prefix string) (string, error)
}

// FinancialYear returns the FY label for t, e.g. 2025-26 for any date from
// 1 April 2025 through 31 March 2026.
func FinancialYear(t time.Time) string {
	year := t.Year()
	if t.Month() >= time.April {
		return fmt.Sprintf("%d-%02d", year, (year+1)%100)
	}
	return fmt.Sprintf("%d-%02d", year-1, year%100)
}

// Format renders an identifier. Counters above 999 simply grow wider.
func Format(prefix, scope string, n int) string {
	return fmt.Sprintf("%s/%s/%03d", prefix, scope, n)
}

// NextAfter returns the counter that follows last. An empty or unparseable
// last identifier restarts at 1; uniqueness at insert still rejects collisions.
func NextAfter(last string) int {
	if last == "" {
		return 1
	}
	idx := strings.LastIndex(last, "/")
	n, err := strconv.Atoi(last[idx+1:])
	if err != nil || n < 0 {
		return 1
	}
	return n + 1
}

// Counter parses the counter of id when id is scopePrefix followed by digits
// only. Anything else, such as INV/2025-26/002-R, is not a generated number.
func Counter(id, scopePrefix string) (int, bool) {
	if !strings.HasPrefix(id, scopePrefix) {
		return 0, false
	}
	suffix := id[len(scopePrefix):]
	if suffix == "" {
		return 0, false
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Generator issues numbers for one document prefix.
type Generator struct {
	prefix string
	now    func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the time source used to pick the financial year.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// NewGenerator creates a Generator for prefix (e.g. "INV" or "DC").
func NewGenerator(prefix string, opts ...Option) *Generator {
	g := &Generator{prefix: prefix, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Prefix is the document prefix this generator issues.
func (g *Generator) Prefix() string { return g.prefix }

// CurrentScope is the financial year of the generator's clock.
func (g *Generator) CurrentScope() string {
	return FinancialYear(g.now())
}

// Accepts reports whether a caller-chosen identifier can coexist with the
// counter. Identifiers outside PREFIX/ are always accepted; inside it the
// identifier must be exactly what Format would produce for its scope.
func (g *Generator) Accepts(id string) bool {
	rest, ok := strings.CutPrefix(id, g.prefix+"/")
	if !ok {
		return true
	}
	scope, counter, ok := strings.Cut(rest, "/")
	if !ok {
		return true
	}
	n, ok := Counter(counter, "")
	return ok && Format(g.prefix, scope, n) == id
}

// Next issues the next identifier for the current financial year.
func (g *Generator) Next(ctx context.Context, finder LastIssuedFinder) (string, error) {
	return g.NextInScope(ctx, finder, g.CurrentScope())
}

// NextInScope issues the next identifier for an explicit scope key.
func (g *Generator) NextInScope(ctx context.Context, finder LastIssuedFinder, scope string) (string, error) {
	last, err := finder.LastNumber(ctx, fmt.Sprintf("%s/%s/", g.prefix, scope))
	if err != nil {
		return "", fmt.Errorf("sequence.Next: %w", err)
	}
	return Format(g.prefix, scope, NextAfter(last)), nil
}
