package verdict

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// IsIn accepts values equal to one of the given choices. Numbers compare by
// value, so json.Number("3") is in IsIn(3).
func IsIn(choices ...any) Predicate {
	choices = append([]any(nil), choices...)
	rendered := make([]string, len(choices))
	for i, c := range choices {
		rendered[i] = Render(c)
	}
	format := "%s is not one of [" + escapePercent(strings.Join(rendered, ", ")) + "]"
	return Leaf(CodeNotIn, format, func(v any) bool {
		for _, c := range choices {
			if equal(v, c) {
				return true
			}
		}
		return false
	})
}

// Eq accepts values equal to want (see IsIn for number handling).
func Eq(want any) Predicate {
	return Leaf(CodeNotEqual, "%s is not equal to "+escapePercent(Render(want)), func(v any) bool {
		return equal(v, want)
	})
}

func equal(a, b any) bool {
	fa, aok := toFloat(a)
	fb, bok := toFloat(b)
	if aok && bok {
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

// Gt accepts numbers greater than bound.
func Gt(bound float64) Predicate {
	return compareTo(bound, "greater than", CodeTooSmall, func(f float64) bool { return f > bound })
}

// Ge accepts numbers greater than or equal to bound.
func Ge(bound float64) Predicate {
	return compareTo(bound, "greater than or equal to", CodeTooSmall, func(f float64) bool { return f >= bound })
}

// Lt accepts numbers less than bound.
func Lt(bound float64) Predicate {
	return compareTo(bound, "less than", CodeTooBig, func(f float64) bool { return f < bound })
}

// Le accepts numbers less than or equal to bound.
func Le(bound float64) Predicate {
	return compareTo(bound, "less than or equal to", CodeTooBig, func(f float64) bool { return f <= bound })
}

type comparison struct {
	relation string
	bound    float64
	code     string
	holds    func(float64) bool
}

func compareTo(bound float64, relation, code string, holds func(float64) bool) Predicate {
	return comparison{relation: relation, bound: bound, code: code, holds: holds}
}

func (c comparison) Test(v any) bool {
	f, ok := toFloat(v)
	return ok && c.holds(f)
}

func (c comparison) Explain(v any) Explanation {
	f, ok := toFloat(v)
	if !ok {
		return Fail(CodeNotANumber, fmt.Sprintf("%s is not a number", Render(v)))
	}
	if !c.holds(f) {
		return Fail(c.code, fmt.Sprintf("%s is not %s %s", Render(v), c.relation, strconv.FormatFloat(c.bound, 'g', -1, 64)))
	}
	return OK(okMessage)
}
