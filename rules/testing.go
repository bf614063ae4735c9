//go:build ruleguard

package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

// BenchmarkLoop detects the old benchmark iteration pattern and suggests
// using b.Loop().
//
// Old pattern:
//
//	for i := 0; i < b.N; i++ {
//	    // work
//	}
//
// New pattern (Go 1.24+):
//
//	for b.Loop() {
//	    // work
//	}
//
// With b.Loop the setup and cleanup run once per -count and the compiler
// cannot optimize the body away.
func BenchmarkLoop(m dsl.Matcher) {
	// Loop variable may be used in the body, so no auto-fix here
	m.Match(
		`for $i := 0; $i < $b.N; $i++ { $*body }`,
		`for $i := range $b.N { $*body }`,
	).
		Where(m["b"].Type.Is("*testing.B")).
		Report("use for $b.Loop() { ... } instead of iterating to $b.N (Go 1.24+); declare the index separately if the body needs it")

	m.Match(`for range $b.N { $*body }`).
		Where(m["b"].Type.Is("*testing.B")).
		Report("use for $b.Loop() { ... } instead of for range $b.N (Go 1.24+)").
		Suggest("for $b.Loop() { $body }")
}

// TestingContext detects context.Background() in tests and suggests
// t.Context(), which is canceled automatically when the test ends.
//
// Old pattern:
//
//	user, err := provider.CurrentUser(context.Background())
//
// New pattern (Go 1.24+):
//
//	user, err := provider.CurrentUser(t.Context())
func TestingContext(m dsl.Matcher) {
	m.Match(`context.Background()`, `context.TODO()`).
		Where(m.File().Name.Matches(`.*_test\.go`)).
		Report("use t.Context() in tests instead of context.Background() (Go 1.24+)")
}
