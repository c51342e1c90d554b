package verdict

import "fmt"

const (
	MsgAndInvalid = "not all the given predicates hold"
	MsgAndValid   = "all the given predicates hold"
	MsgOrInvalid  = "none of the given predicates hold"
	MsgOrValid    = "at least one of the given predicates holds"
)

// And accepts values satisfying every child. Explain evaluates all children
// and reports each failing one under its Branch key. And() accepts everything.
func And(ps ...Predicate) Predicate { return and{ps: mustPredicates("And", ps)} }

type and struct{ ps []Predicate }

func (a and) Test(v any) bool {
	for _, p := range a.ps {
		if !p.Test(v) {
			return false
		}
	}
	return true
}

func (a and) Explain(v any) Explanation {
	var b DetailsBuilder
	for i, p := range a.ps {
		if e := p.Explain(v); !e.Valid() {
			b.Add(Branch(i), e)
		}
	}
	if b.Len() == 0 {
		return OK(MsgAndValid)
	}
	return FailWith(CodeNotAllValid, MsgAndInvalid, b.Details())
}

// Or accepts values satisfying at least one child. On failure every child's
// explanation is reported under its Branch key. Or() rejects everything.
func Or(ps ...Predicate) Predicate { return or{ps: mustPredicates("Or", ps)} }

type or struct{ ps []Predicate }

func (o or) Test(v any) bool {
	for _, p := range o.ps {
		if p.Test(v) {
			return true
		}
	}
	return false
}

func (o or) Explain(v any) Explanation {
	var b DetailsBuilder
	for i, p := range o.ps {
		e := p.Explain(v)
		if e.Valid() {
			return OK(MsgOrValid)
		}
		b.Add(Branch(i), e)
	}
	return FailWith(CodeNoneValid, MsgOrInvalid, b.Details())
}

// Not inverts p. Its Explanation never carries details.
func Not(p Predicate) Predicate {
	if p == nil {
		panic("verdict.Not: predicate must not be nil")
	}
	return not{p: p}
}

type not struct{ p Predicate }

func (n not) Test(v any) bool { return !n.p.Test(v) }

func (n not) Explain(v any) Explanation {
	if n.p.Test(v) {
		return Fail(CodeNotNegated, fmt.Sprintf("%s satisfies the negated predicate", Render(v)))
	}
	return OK(okMessage)
}
