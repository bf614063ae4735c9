//go:build ruleguard

package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

// TimeLayoutConstants detects magic date layout strings and suggests the
// named constants added in Go 1.20. Record dates and forecast periods are
// all ISO formatted, so these layouts show up anywhere dates are parsed.
//
// Old pattern:
//
//	t.Format("2006-01-02")
//	time.Parse("2006-01-02 15:04:05", s)
//
// New pattern (Go 1.20+):
//
//	t.Format(time.DateOnly)
//	time.Parse(time.DateTime, s)
func TimeLayoutConstants(m dsl.Matcher) {
	m.Match(`$t.Format("2006-01-02")`).
		Report(`use $t.Format(time.DateOnly) instead of the magic layout string (Go 1.20+)`).
		Suggest(`$t.Format(time.DateOnly)`)

	m.Match(`time.Parse("2006-01-02", $s)`).
		Report(`use time.Parse(time.DateOnly, $s) instead of the magic layout string (Go 1.20+)`).
		Suggest(`time.Parse(time.DateOnly, $s)`)

	m.Match(`$t.Format("2006-01-02 15:04:05")`).
		Report(`use $t.Format(time.DateTime) instead of the magic layout string (Go 1.20+)`).
		Suggest(`$t.Format(time.DateTime)`)

	m.Match(`time.Parse("2006-01-02 15:04:05", $s)`).
		Report(`use time.Parse(time.DateTime, $s) instead of the magic layout string (Go 1.20+)`).
		Suggest(`time.Parse(time.DateTime, $s)`)
}

// TimeSinceUntil detects manual duration arithmetic against time.Now and
// suggests the dedicated helpers.
//
// Old pattern:
//
//	elapsed := time.Now().Sub(start)
//	remaining := deadline.Sub(time.Now())
//
// New pattern:
//
//	elapsed := time.Since(start)
//	remaining := time.Until(deadline)
func TimeSinceUntil(m dsl.Matcher) {
	m.Match(`time.Now().Sub($t)`).
		Report("use time.Since($t) instead of time.Now().Sub($t)").
		Suggest("time.Since($t)")

	m.Match(`$t.Sub(time.Now())`).
		Report("use time.Until($t) instead of $t.Sub(time.Now())").
		Suggest("time.Until($t)")
}
