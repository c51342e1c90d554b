package verdict

import (
	"fmt"
	"slices"
)

// Fixed messages of the structural combinators. Details carry the specifics.
const (
	MsgListInvalid = "not all elements are valid according to the predicate"
	MsgListValid   = "all elements are valid according to the predicate"
	MsgDictInvalid = "data is not a dict where all the given predicates hold"
	MsgDictValid   = "data is a dict where all the given predicates hold"
)

// ---------------- Sequence ----------------

// IsListOf returns a predicate accepting sequences whose every element
// satisfies elem. The empty sequence is accepted. Explain reports each
// failing element under its Index key; valid elements are omitted.
func IsListOf(elem Predicate) Predicate {
	if elem == nil {
		panic("verdict.IsListOf: predicate must not be nil")
	}
	return listOf{elem: elem}
}

type listOf struct {
	elem Predicate
}

func (l listOf) Test(v any) bool {
	seq, ok := AsList(v)
	if !ok {
		return false
	}
	for i := 0; i < seq.Len(); i++ {
		if !l.elem.Test(seq.At(i)) {
			return false
		}
	}
	return true
}

func (l listOf) Explain(v any) Explanation {
	seq, ok := AsList(v)
	if !ok {
		return Fail(CodeNotAList, fmt.Sprintf("%s is not a list", Render(v)))
	}
	var b DetailsBuilder
	for i := 0; i < seq.Len(); i++ {
		if e := l.elem.Explain(seq.At(i)); !e.Valid() {
			b.Add(Index(i), e)
		}
	}
	if b.Len() == 0 {
		return OK(MsgListValid)
	}
	return FailWith(CodeNotAllValid, MsgListInvalid, b.Details())
}

// ---------------- Mapping ----------------

// UnknownPolicy controls how keys not declared in IsDictWhere are handled.
type UnknownPolicy int

const (
	UnknownIgnore UnknownPolicy = iota // Undeclared keys are not inspected.
	UnknownStrict                      // Undeclared keys fail with CodeUnknownKey.
)

// FieldSpec declares one key of IsDictWhere. Build it with Required or Optional.
type FieldSpec struct {
	name     string
	pred     Predicate
	optional bool
}

// Required declares a key that must be present and satisfy p.
func Required(name string, p Predicate) FieldSpec { return FieldSpec{name: name, pred: p} }

// Optional declares a key that may be absent; when present it must satisfy p.
func Optional(name string, p Predicate) FieldSpec {
	return FieldSpec{name: name, pred: p, optional: true}
}

func (f FieldSpec) Name() string         { return f.name }
func (f FieldSpec) Predicate() Predicate { return f.pred }
func (f FieldSpec) IsOptional() bool     { return f.optional }

// DictPredicate validates mappings against a fixed, ordered set of fields.
// It is immutable; Strict returns a modified copy.
type DictPredicate struct {
	fields   []FieldSpec
	declared map[string]struct{}
	unknown  UnknownPolicy
}

// NewDictWhere builds a DictPredicate. It fails on nil predicates and on
// duplicate field names.
func NewDictWhere(fields ...FieldSpec) (DictPredicate, error) {
	declared := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.pred == nil {
			return DictPredicate{}, fmt.Errorf("verdict: field %q has a nil predicate", f.name)
		}
		if _, dup := declared[f.name]; dup {
			return DictPredicate{}, fmt.Errorf("verdict: duplicate field %q", f.name)
		}
		declared[f.name] = struct{}{}
	}
	return DictPredicate{fields: slices.Clone(fields), declared: declared}, nil
}

// IsDictWhere is like NewDictWhere but panics on invalid declarations.
//
// Every field is checked in declaration order. Missing required keys fail
// with CodeMissingKey; undeclared keys are ignored unless Strict is used.
func IsDictWhere(fields ...FieldSpec) DictPredicate {
	d, err := NewDictWhere(fields...)
	if err != nil {
		panic(err)
	}
	return d
}

// Strict returns a copy that rejects undeclared keys.
func (d DictPredicate) Strict() DictPredicate { return d.WithUnknown(UnknownStrict) }

// WithUnknown returns a copy using the given unknown-key policy.
func (d DictPredicate) WithUnknown(p UnknownPolicy) DictPredicate {
	d.fields = slices.Clone(d.fields)
	d.unknown = p
	return d
}

// Fields returns the declared fields in order.
func (d DictPredicate) Fields() []FieldSpec { return slices.Clone(d.fields) }

func (d DictPredicate) Test(v any) bool {
	m, ok := AsDict(v)
	if !ok {
		return false
	}
	for _, f := range d.fields {
		val, present := m.Lookup(f.name)
		if !present {
			if f.optional {
				continue
			}
			return false
		}
		if !f.pred.Test(val) {
			return false
		}
	}
	if d.unknown == UnknownStrict {
		for _, k := range m.Keys() {
			if _, ok := d.declared[k]; !ok {
				return false
			}
		}
	}
	return true
}

func (d DictPredicate) Explain(v any) Explanation {
	m, ok := AsDict(v)
	if !ok {
		return Fail(CodeNotADict, fmt.Sprintf("%s is not a dict", Render(v)))
	}
	var b DetailsBuilder
	for _, f := range d.fields {
		val, present := m.Lookup(f.name)
		if !present {
			if !f.optional {
				b.Add(Field(f.name), Fail(CodeMissingKey, fmt.Sprintf("key %s is missing", Render(f.name))))
			}
			continue
		}
		if e := f.pred.Explain(val); !e.Valid() {
			b.Add(Field(f.name), e)
		}
	}
	if d.unknown == UnknownStrict {
		// Keys() is sorted, so unknown keys follow the declared ones in a stable order.
		for _, k := range m.Keys() {
			if _, ok := d.declared[k]; !ok {
				b.Add(Field(k), Fail(CodeUnknownKey, fmt.Sprintf("key %s is not allowed", Render(k))))
			}
		}
	}
	if b.Len() == 0 {
		return OK(MsgDictValid)
	}
	return FailWith(CodeNotAllValid, MsgDictInvalid, b.Details())
}
