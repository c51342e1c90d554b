// Package rules provides higher-level predicates built on verdict: conditional
// rules, pointer-addressed checks, length bounds and uniqueness.
package rules

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/reoring/verdict"
)

// Conditional applies Then when the condition holds and Else otherwise.
type Conditional struct {
	cond  verdict.Predicate
	then  verdict.Predicate
	other verdict.Predicate
}

// If starts a conditional rule. Until Then/Else are given both branches accept
// every value.
func If(cond verdict.Predicate) Conditional {
	if cond == nil {
		panic("rules.If: condition must not be nil")
	}
	return Conditional{cond: cond, then: verdict.Any(), other: verdict.Any()}
}

// Then sets the predicate applied when the condition holds.
func (c Conditional) Then(p verdict.Predicate) Conditional {
	if p == nil {
		panic("rules.Then: predicate must not be nil")
	}
	c.then = p
	return c
}

// Else sets the predicate applied when the condition does not hold.
func (c Conditional) Else(p verdict.Predicate) Conditional {
	if p == nil {
		panic("rules.Else: predicate must not be nil")
	}
	c.other = p
	return c
}

func (c Conditional) branch(v any) verdict.Predicate {
	if c.cond.Test(v) {
		return c.then
	}
	return c.other
}

func (c Conditional) Test(v any) bool                   { return c.branch(v).Test(v) }
func (c Conditional) Explain(v any) verdict.Explanation { return c.branch(v).Explain(v) }

// At applies p to the value addressed by a JSON Pointer (for example
// "/items/0/sku"). A missing location fails with CodeMissingKey. Failures are
// nested under the pointer's keys so summaries show the full path.
func At(pointer string, p verdict.Predicate) verdict.Predicate {
	if p == nil {
		panic("rules.At: predicate must not be nil")
	}
	return at{pointer: normalizePath(pointer), segs: splitPointer(pointer), p: p}
}

type at struct {
	pointer string
	segs    []string
	p       verdict.Predicate
}

func (a at) Test(v any) bool {
	val, _, ok := resolve(v, a.segs)
	return ok && a.p.Test(val)
}

func (a at) Explain(v any) verdict.Explanation {
	val, keys, ok := resolve(v, a.segs)
	var leaf verdict.Explanation
	if !ok {
		missing := a.segs[len(keys)]
		keys = append(keys, verdict.Field(missing))
		leaf = verdict.Fail(verdict.CodeMissingKey, fmt.Sprintf("key %s is missing", verdict.Render(missing)))
	} else {
		leaf = a.p.Explain(val)
		if leaf.Valid() {
			return leaf
		}
	}
	msg := "data at " + a.pointer + " is not valid"
	e := leaf
	for i := len(keys) - 1; i >= 0; i-- {
		var b verdict.DetailsBuilder
		b.Add(keys[i], e)
		e = verdict.FailWith(verdict.CodeNotAllValid, msg, b.Details())
	}
	return e
}

// resolve walks v along segs. It returns the keys consumed so far; when the
// walk fails, len(keys) is the position of the unresolved segment.
func resolve(v any, segs []string) (any, []verdict.Key, bool) {
	keys := make([]verdict.Key, 0, len(segs))
	cur := v
	for _, seg := range segs {
		if m, ok := verdict.AsDict(cur); ok {
			next, found := m.Lookup(seg)
			if !found {
				return nil, keys, false
			}
			keys = append(keys, verdict.Field(seg))
			cur = next
			continue
		}
		if l, ok := verdict.AsList(cur); ok {
			idx, ok := tryParseInt(seg)
			if !ok || idx < 0 || idx >= l.Len() {
				return nil, keys, false
			}
			keys = append(keys, verdict.Index(idx))
			cur = l.At(idx)
			continue
		}
		return nil, keys, false
	}
	return cur, keys, true
}

// MinLen accepts strings (counted in runes), lists and dicts with at least n
// elements.
func MinLen(n int) verdict.Predicate {
	return lengthRule{bound: n, code: verdict.CodeTooShort, relation: "at least", holds: func(l int) bool { return l >= n }}
}

// MaxLen accepts strings, lists and dicts with at most n elements.
func MaxLen(n int) verdict.Predicate {
	return lengthRule{bound: n, code: verdict.CodeTooLong, relation: "at most", holds: func(l int) bool { return l <= n }}
}

// NonEmpty is MinLen(1).
func NonEmpty() verdict.Predicate { return MinLen(1) }

type lengthRule struct {
	bound    int
	code     string
	relation string
	holds    func(int) bool
}

func (r lengthRule) Test(v any) bool {
	n, ok := length(v)
	return ok && r.holds(n)
}

func (r lengthRule) Explain(v any) verdict.Explanation {
	n, ok := length(v)
	if !ok {
		return verdict.Fail(verdict.CodeNoLength, fmt.Sprintf("%s has no length", verdict.Render(v)))
	}
	if !r.holds(n) {
		return verdict.Fail(r.code, fmt.Sprintf("%s has length %d, expected %s %d", verdict.Render(v), n, r.relation, r.bound))
	}
	return verdict.OK("ok")
}

var isStr = verdict.IsStr()

func length(v any) (int, bool) {
	if isStr.Test(v) {
		return utf8.RuneCountInString(reflect.ValueOf(v).String()), true
	}
	if l, ok := verdict.AsList(v); ok {
		return l.Len(), true
	}
	if m, ok := verdict.AsDict(v); ok {
		return m.Len(), true
	}
	return 0, false
}

// UniqueBy accepts lists whose elements carry pairwise distinct values under
// key. Elements that are not dicts or lack the key are skipped.
// Note: values are compared by their rendering, so 1 and json.Number("1")
// collide. Keep the key a single type.
func UniqueBy(key string) verdict.Predicate { return uniqueBy{key: key} }

type uniqueBy struct{ key string }

func (u uniqueBy) duplicates(l verdict.List) map[int]int {
	seen := map[string]int{}
	var dups map[int]int
	for i := 0; i < l.Len(); i++ {
		m, ok := verdict.AsDict(l.At(i))
		if !ok {
			continue
		}
		kv, ok := m.Lookup(u.key)
		if !ok {
			continue
		}
		k := verdict.Repr(kv)
		if j, dup := seen[k]; dup {
			if dups == nil {
				dups = map[int]int{}
			}
			dups[i] = j
		} else {
			seen[k] = i
		}
	}
	return dups
}

func (u uniqueBy) Test(v any) bool {
	l, ok := verdict.AsList(v)
	return ok && len(u.duplicates(l)) == 0
}

func (u uniqueBy) Explain(v any) verdict.Explanation {
	l, ok := verdict.AsList(v)
	if !ok {
		return verdict.Fail(verdict.CodeNotAList, fmt.Sprintf("%s is not a list", verdict.Render(v)))
	}
	dups := u.duplicates(l)
	if len(dups) == 0 {
		return verdict.OK("elements are unique by " + verdict.Render(u.key))
	}
	var b verdict.DetailsBuilder
	for i := 0; i < l.Len(); i++ {
		first, dup := dups[i]
		if !dup {
			continue
		}
		m, _ := verdict.AsDict(l.At(i))
		kv, _ := m.Lookup(u.key)
		var inner verdict.DetailsBuilder
		inner.Add(verdict.Field(u.key), verdict.Fail(verdict.CodeNotUnique,
			fmt.Sprintf("%s duplicates the value at index %d", verdict.Render(kv), first)))
		b.Add(verdict.Index(i), verdict.FailWith(verdict.CodeNotUnique, "element is not unique", inner.Details()))
	}
	return verdict.FailWith(verdict.CodeNotUnique, "elements are not unique by "+verdict.Render(u.key), b.Details())
}

// ------- helpers -------

func normalizePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	if p[0] != '/' {
		return "/" + p
	}
	return p
}

func splitPointer(p string) []string {
	p = strings.TrimPrefix(normalizePath(p), "/")
	if p == "" {
		return nil
	}
	parts := strings.Split(p, "/")
	for i, s := range parts {
		// unescape per RFC6901: '~1' -> '/', then '~0' -> '~'
		parts[i] = strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
	}
	return parts
}

func tryParseInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
