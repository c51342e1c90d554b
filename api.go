package verdict

import "fmt"

// Predicate is a pure rule over an arbitrary value.
//
// Implementations must be safe for concurrent use, must not panic for any
// input, and must keep Test(v) == Explain(v).Valid() for every v.
type Predicate interface {
	// Test reports whether v satisfies the rule. It may stop at the first
	// failure.
	Test(v any) bool
	// Explain returns the verdict together with the reasons. Structural
	// predicates attach every failing child under Details.
	Explain(v any) Explanation
}

// okMessage is the message of a valid leaf Explanation.
const okMessage = "ok"

// Leaf builds a terminal predicate from a pure, total test function. On
// failure the Explanation carries code and format applied to the rendered
// value (format has exactly one %s verb).
func Leaf(code, format string, test func(v any) bool) Predicate {
	if test == nil {
		panic("verdict.Leaf: test must not be nil")
	}
	return leaf{code: code, format: format, test: test}
}

type leaf struct {
	code   string
	format string
	test   func(any) bool
}

func (l leaf) Test(v any) bool { return l.test(v) }

func (l leaf) Explain(v any) Explanation {
	if l.test(v) {
		return OK(okMessage)
	}
	return Fail(l.code, fmt.Sprintf(l.format, Render(v)))
}

// Func adapts an explain function (and optionally a faster test function)
// into a Predicate. When test is nil, Test delegates to explain.
func Func(test func(v any) bool, explain func(v any) Explanation) Predicate {
	if explain == nil {
		panic("verdict.Func: explain must not be nil")
	}
	return funcPredicate{test: test, explain: explain}
}

type funcPredicate struct {
	test    func(any) bool
	explain func(any) Explanation
}

func (f funcPredicate) Test(v any) bool {
	if f.test == nil {
		return f.explain(v).Valid()
	}
	return f.test(v)
}

func (f funcPredicate) Explain(v any) Explanation { return f.explain(v) }

// Check returns nil when v satisfies p and the flattened Issues otherwise.
func Check(p Predicate, v any) error {
	if p.Test(v) {
		return nil
	}
	return p.Explain(v).Err()
}

// Any returns a predicate that accepts every value.
func Any() Predicate { return anyPredicate{} }

type anyPredicate struct{}

func (anyPredicate) Test(any) bool           { return true }
func (anyPredicate) Explain(any) Explanation { return OK(okMessage) }

func mustPredicates(fn string, ps []Predicate) []Predicate {
	for i, p := range ps {
		if p == nil {
			panic(fmt.Sprintf("verdict.%s: predicate %d must not be nil", fn, i))
		}
	}
	return append([]Predicate(nil), ps...)
}
