package verdict_test

import (
	"testing"

	"github.com/reoring/verdict"
)

func TestIsListOf_VacuousTruth(t *testing.T) {
	never := verdict.Or()
	for _, p := range []verdict.Predicate{verdict.IsStr(), never, verdict.IsListOf(never)} {
		lp := verdict.IsListOf(p)
		if !lp.Test([]any{}) || !lp.Explain([]any{}).Valid() {
			t.Fatalf("empty sequence must be valid")
		}
		if !lp.Test([]string(nil)) {
			t.Fatalf("nil typed slice is an empty sequence")
		}
	}
}

func TestIsListOf_DetailKeysMatchFailingIndices(t *testing.T) {
	p := verdict.IsInt()
	lp := verdict.IsListOf(p)
	for _, v := range [][]any{
		{1, 2, 3},
		{"a", 2, nil, 4.5},
		{"a"},
		{1, "b", 3, "d"},
	} {
		var want []verdict.Key
		for i, el := range v {
			if !p.Test(el) {
				want = append(want, verdict.Index(i))
			}
		}
		got := lp.Explain(v).Details().Keys()
		if len(got) != len(want) {
			t.Fatalf("%v: got keys %v want %v", v, got, want)
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("%v: got keys %v want %v", v, got, want)
			}
		}
		if lp.Test(v) != lp.Explain(v).Valid() {
			t.Fatalf("%v: Test and Explain disagree", v)
		}
	}
}

func TestIsListOf_NotAList(t *testing.T) {
	lp := verdict.IsListOf(verdict.Any())
	for _, v := range []any{nil, "abc", []byte("abc"), 3, map[string]any{}} {
		exp := lp.Explain(v)
		if exp.Valid() || exp.Code() != verdict.CodeNotAList || exp.HasDetails() {
			t.Fatalf("%#v: expected not_a_list without details, got %q", v, exp.Code())
		}
		if lp.Test(v) {
			t.Fatalf("%#v: Test should be false", v)
		}
	}
}

func TestIsDictWhere_NotADict(t *testing.T) {
	d := verdict.IsDictWhere(verdict.Required("a", verdict.IsInt()), verdict.Required("b", verdict.IsStr()))
	for _, v := range []any{nil, "x", 1, []any{}, map[int]any{1: 1}} {
		exp := d.Explain(v)
		if exp.Valid() || exp.Code() != verdict.CodeNotADict {
			t.Fatalf("%#v: expected not_a_dict, got %q", v, exp.Code())
		}
		if d.Test(v) {
			t.Fatalf("%#v: Test should be false", v)
		}
	}
}

func TestIsDictWhere_MissingAndFailing(t *testing.T) {
	d := verdict.IsDictWhere(
		verdict.Required("a", verdict.IsInt()),
		verdict.Required("b", verdict.IsStr()),
		verdict.Required("c", verdict.IsBool()),
	)
	v := map[string]any{"a": "not int", "c": true, "extra": 1}
	if d.Test(v) {
		t.Fatalf("expected invalid")
	}
	exp := d.Explain(v)
	if exp.Message() != verdict.MsgDictInvalid || exp.Code() != verdict.CodeNotAllValid {
		t.Fatalf("root: %q %q", exp.Code(), exp.Message())
	}
	keys := exp.Details().Keys()
	if len(keys) != 2 || keys[0] != verdict.Field("a") || keys[1] != verdict.Field("b") {
		t.Fatalf("expected failing fields in declaration order, got %v", keys)
	}
	b, _ := exp.Details().Field("b")
	if b.Code() != verdict.CodeMissingKey || b.Message() != "key 'b' is missing" {
		t.Fatalf("missing key: %q %q", b.Code(), b.Message())
	}

	ok := map[string]any{"a": 1, "b": "x", "c": false, "extra": 1}
	if !d.Test(ok) || !d.Explain(ok).Valid() {
		t.Fatalf("unknown keys are ignored by default")
	}
}

func TestIsDictWhere_OptionalAndStrict(t *testing.T) {
	d := verdict.IsDictWhere(
		verdict.Required("id", verdict.IsStr()),
		verdict.Optional("nick", verdict.IsStr()),
	)
	if !d.Test(map[string]any{"id": "1"}) {
		t.Fatalf("optional field may be absent")
	}
	if d.Test(map[string]any{"id": "1", "nick": 3}) {
		t.Fatalf("optional field must satisfy its predicate when present")
	}

	strict := d.Strict()
	v := map[string]any{"id": "1", "zzz": 1, "yyy": 2}
	if !d.Test(v) {
		t.Fatalf("Strict must not modify the receiver")
	}
	if strict.Test(v) {
		t.Fatalf("strict should reject unknown keys")
	}
	keys := strict.Explain(v).Details().Keys()
	if len(keys) != 2 || keys[0] != verdict.Field("yyy") || keys[1] != verdict.Field("zzz") {
		t.Fatalf("unknown keys should be sorted: %v", keys)
	}
	e, _ := strict.Explain(v).Details().Field("zzz")
	if e.Code() != verdict.CodeUnknownKey {
		t.Fatalf("unexpected code: %q", e.Code())
	}
}

func TestNewDictWhere_InvalidDeclarations(t *testing.T) {
	if _, err := verdict.NewDictWhere(verdict.Required("a", nil)); err == nil {
		t.Fatalf("expected error for nil predicate")
	}
	if _, err := verdict.NewDictWhere(verdict.Required("a", verdict.Any()), verdict.Optional("a", verdict.Any())); err == nil {
		t.Fatalf("expected error for duplicate field")
	}
	d, err := verdict.NewDictWhere(verdict.Required("a", verdict.Any()), verdict.Optional("b", verdict.IsStr()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fs := d.Fields()
	if len(fs) != 2 || fs[0].Name() != "a" || fs[0].IsOptional() || !fs[1].IsOptional() {
		t.Fatalf("unexpected fields: %+v", fs)
	}
}

type account struct {
	ID      string  `verdict:"id" json:"account_id"`
	Email   string  `json:"email,omitempty"`
	Secret  string  `json:"-"`
	Balance float64 // no tag: field name
	note    string
}

func TestIsDictWhere_Structs(t *testing.T) {
	d := verdict.IsDictWhere(
		verdict.Required("id", verdict.IsStr()),
		verdict.Required("email", verdict.MustMatch(`@`)),
		verdict.Required("Balance", verdict.Ge(0)),
	).Strict()

	a := account{ID: "1", Email: "a@b", Balance: 2, note: "hidden"}
	if !d.Test(a) || !d.Test(&a) {
		t.Fatalf("expected struct and pointer to be valid:\n%s", d.Explain(a).Summary())
	}
	a.Email = "nope"
	exp := d.Explain(&a)
	if exp.Valid() {
		t.Fatalf("expected invalid email")
	}
	if _, ok := exp.Details().Field("email"); !ok || exp.Details().Len() != 1 {
		t.Fatalf("unexpected details: %v", exp.Details().Keys())
	}
	if d.Test((*account)(nil)) {
		t.Fatalf("nil struct pointer is not a dict")
	}
}

func TestLogical(t *testing.T) {
	and := verdict.And(verdict.IsNumber(), verdict.Gt(0), verdict.Lt(10))
	exp := and.Explain(-20)
	if exp.Valid() || exp.Code() != verdict.CodeNotAllValid {
		t.Fatalf("unexpected and result: %q", exp.Code())
	}
	if keys := exp.Details().Keys(); len(keys) != 1 || keys[0] != verdict.Branch(1) {
		t.Fatalf("and should report only failing branches: %v", keys)
	}
	all := and.Explain("x").Details().Keys()
	if len(all) != 3 {
		t.Fatalf("and must not short-circuit in Explain: %v", all)
	}
	if !verdict.And().Test(nil) {
		t.Fatalf("empty And accepts everything")
	}

	or := verdict.Or(verdict.IsStr(), verdict.IsInt())
	if !or.Test(3) || !or.Explain("x").Valid() {
		t.Fatalf("or should accept any matching branch")
	}
	oexp := or.Explain(1.5)
	if oexp.Code() != verdict.CodeNoneValid || oexp.Details().Len() != 2 {
		t.Fatalf("or must report every branch: %q %v", oexp.Code(), oexp.Details().Keys())
	}
	if verdict.Or().Test(nil) {
		t.Fatalf("empty Or rejects everything")
	}

	not := verdict.Not(verdict.IsStr())
	if not.Test("x") || !not.Test(1) {
		t.Fatalf("not should invert")
	}
	nexp := not.Explain("x")
	if nexp.Code() != verdict.CodeNotNegated || nexp.HasDetails() {
		t.Fatalf("not: %q", nexp.Code())
	}
}

func TestCombinators_AgreementLaw(t *testing.T) {
	inner := verdict.IsDictWhere(verdict.Required("name", verdict.IsStr()), verdict.Optional("age", verdict.IsInt()))
	preds := []verdict.Predicate{
		verdict.IsListOf(verdict.IsInt()),
		verdict.IsListOf(verdict.Or(verdict.IsStr(), verdict.IsNumber())),
		inner,
		inner.Strict(),
		verdict.And(verdict.IsDict(), verdict.Not(verdict.IsNil())),
		verdict.Or(verdict.IsListOf(verdict.Any()), inner),
		verdict.Not(verdict.IsListOf(verdict.IsStr())),
	}
	for i, p := range preds {
		for _, v := range corpus() {
			if p.Test(v) != p.Explain(v).Valid() {
				t.Fatalf("predicate %d: Test and Explain disagree on %#v", i, v)
			}
		}
	}
}

func TestNilChildrenPanic(t *testing.T) {
	for name, build := range map[string]func(){
		"IsListOf": func() { verdict.IsListOf(nil) },
		"And":      func() { verdict.And(verdict.Any(), nil) },
		"Or":       func() { verdict.Or(nil) },
		"Not":      func() { verdict.Not(nil) },
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("%s: expected panic", name)
				}
			}()
			build()
		}()
	}
}
