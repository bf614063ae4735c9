//go:build ruleguard

// Package gorules contains custom linting rules for golangci-lint via ruleguard.
// These rules keep the codebase on the Go 1.21+ builtins and library shortcuts
// instead of the older hand-rolled equivalents.
package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

// MinMaxBuiltin detects math.Min/math.Max calls that the min and max
// builtins replace directly.
//
// Old patterns:
//
//	clamped := math.Max(0, math.Min(100, score))
//	rows := int(math.Min(float64(a), float64(b)))
//
// New pattern (Go 1.21+):
//
//	clamped := min(100, max(0, score))
//	rows := min(a, b)
//
// The builtins work on any ordered type, so the float64 round-trip for
// integer arguments disappears entirely.
func MinMaxBuiltin(m dsl.Matcher) {
	// Integer arguments routed through float64
	m.Match(
		`int(math.Min(float64($a), float64($b)))`,
		`int64(math.Min(float64($a), float64($b)))`,
	).
		Report("use min($a, $b) instead of converting through math.Min (Go 1.21+)").
		Suggest("min($a, $b)")

	m.Match(
		`int(math.Max(float64($a), float64($b)))`,
		`int64(math.Max(float64($a), float64($b)))`,
	).
		Report("use max($a, $b) instead of converting through math.Max (Go 1.21+)").
		Suggest("max($a, $b)")

	// Plain float calls; the builtins have the same NaN propagation
	m.Match(`math.Min($a, $b)`).
		Report("use the min builtin instead of math.Min (Go 1.21+)").
		Suggest("min($a, $b)")

	m.Match(`math.Max($a, $b)`).
		Report("use the max builtin instead of math.Max (Go 1.21+)").
		Suggest("max($a, $b)")
}

// ClearBuiltin detects loop-based map clearing and suggests the clear()
// builtin.
//
// Old pattern:
//
//	for k := range totals {
//	    delete(totals, k)
//	}
//
// New pattern (Go 1.21+):
//
//	clear(totals)
func ClearBuiltin(m dsl.Matcher) {
	m.Match(
		`for $k := range $m { delete($m, $k) }`,
		`for $k, _ := range $m { delete($m, $k) }`,
	).
		Report("use clear($m) instead of loop-based map clearing (Go 1.21+)").
		Suggest("clear($m)")
}
