package verdict

import (
	"iter"
	"slices"
)

// Explanation is the immutable result of explaining a predicate's verdict on a
// value. A fresh tree is produced by every Explain call and owned by the caller.
type Explanation struct {
	valid   bool
	code    string
	message string
	details Details
}

// OK returns a valid Explanation with code "ok".
func OK(message string) Explanation {
	return Explanation{valid: true, code: CodeOK, message: message}
}

// Fail returns an invalid Explanation without details.
func Fail(code, message string) Explanation {
	return Explanation{code: code, message: message}
}

// FailWith returns an invalid Explanation carrying the given child details.
func FailWith(code, message string, details Details) Explanation {
	return Explanation{code: code, message: message, details: details}
}

func (e Explanation) Valid() bool      { return e.valid }
func (e Explanation) Code() string     { return e.code }
func (e Explanation) Message() string  { return e.message }
func (e Explanation) Details() Details { return e.details }

// HasDetails reports whether the Explanation carries at least one child.
func (e Explanation) HasDetails() bool { return e.details.Len() > 0 }

// Equal reports whether two trees have the same verdicts, codes, messages and
// details in the same order.
func (e Explanation) Equal(o Explanation) bool {
	if e.valid != o.valid || e.code != o.code || e.message != o.message {
		return false
	}
	if e.details.Len() != o.details.Len() {
		return false
	}
	for i := range e.details.entries {
		a, b := e.details.entries[i], o.details.entries[i]
		if a.Key != b.Key || !a.Explanation.Equal(b.Explanation) {
			return false
		}
	}
	return true
}

// Err returns nil for a valid Explanation and the flattened Issues otherwise.
func (e Explanation) Err() error {
	if e.valid {
		return nil
	}
	return e.Issues()
}

// Detail is one keyed child of an Explanation.
type Detail struct {
	Key         Key
	Explanation Explanation
}

// Details is an ordered, read-only collection of keyed child Explanations.
// The zero value is empty.
type Details struct {
	entries []Detail
}

func (d Details) Len() int { return len(d.entries) }

// At returns the i-th detail in insertion order.
func (d Details) At(i int) Detail { return d.entries[i] }

// Lookup finds the child stored under k.
func (d Details) Lookup(k Key) (Explanation, bool) {
	for _, it := range d.entries {
		if it.Key == k {
			return it.Explanation, true
		}
	}
	return Explanation{}, false
}

// Index is shorthand for Lookup(Index(i)).
func (d Details) Index(i int) (Explanation, bool) { return d.Lookup(Index(i)) }

// Field is shorthand for Lookup(Field(name)).
func (d Details) Field(name string) (Explanation, bool) { return d.Lookup(Field(name)) }

// Keys returns the keys in insertion order.
func (d Details) Keys() []Key {
	out := make([]Key, len(d.entries))
	for i, it := range d.entries {
		out[i] = it.Key
	}
	return out
}

// All iterates over the details in insertion order.
func (d Details) All() iter.Seq2[Key, Explanation] {
	return func(yield func(Key, Explanation) bool) {
		for _, it := range d.entries {
			if !yield(it.Key, it.Explanation) {
				return
			}
		}
	}
}

// DetailsBuilder accumulates details for a structural predicate. It is not
// safe for concurrent use; each Explain call uses its own builder.
type DetailsBuilder struct {
	entries []Detail
}

// Add appends a child under k.
func (b *DetailsBuilder) Add(k Key, e Explanation) *DetailsBuilder {
	b.entries = append(b.entries, Detail{Key: k, Explanation: e})
	return b
}

func (b *DetailsBuilder) Len() int { return len(b.entries) }

// Details returns an immutable snapshot of the accumulated children.
func (b *DetailsBuilder) Details() Details {
	if len(b.entries) == 0 {
		return Details{}
	}
	return Details{entries: slices.Clone(b.entries)}
}
