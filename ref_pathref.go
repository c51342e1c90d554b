package verdict

import (
	"strconv"
	"strings"
)

// KeyKind tells which combinator produced a detail key.
type KeyKind uint8

const (
	KeyIndex  KeyKind = iota // Position of an element in a sequence.
	KeyField                 // Key of a mapping entry.
	KeyBranch                // Position of a child in And/Or.
)

// Key identifies a child Explanation inside Details. Keys are comparable.
type Key struct {
	kind  KeyKind
	index int
	name  string
}

// Index returns the key of the i-th element of a sequence.
func Index(i int) Key { return Key{kind: KeyIndex, index: i} }

// Field returns the key of a mapping entry.
func Field(name string) Key { return Key{kind: KeyField, name: name} }

// Branch returns the key of the i-th child of a logical combinator.
func Branch(i int) Key { return Key{kind: KeyBranch, index: i} }

func (k Key) Kind() KeyKind { return k.kind }

// Int returns the position for index and branch keys, or -1 for field keys.
func (k Key) Int() int {
	if k.kind == KeyField {
		return -1
	}
	return k.index
}

// Name returns the field name, or "" for index and branch keys.
func (k Key) Name() string { return k.name }

// String renders the key as a summary path segment: 1, 'pubdate' or #0.
func (k Key) String() string {
	switch k.kind {
	case KeyField:
		return Render(k.name)
	case KeyBranch:
		return "#" + strconv.Itoa(k.index)
	default:
		return strconv.Itoa(k.index)
	}
}

// Path is the sequence of keys from the root Explanation to a descendant.
type Path []Key

// With returns a new path extended by k. The receiver is never modified.
func (p Path) With(k Key) Path {
	return append(append(make(Path, 0, len(p)+1), p...), k)
}

// String renders the path in summary form, for example [1:'pubdate'].
func (p Path) String() string {
	b := &strings.Builder{}
	b.WriteByte('[')
	for i, k := range p {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(k.String())
	}
	b.WriteByte(']')
	return b.String()
}

// Pointer renders the path as a JSON Pointer (RFC 6901). Branch keys do not
// address a location in the value and are skipped.
func (p Path) Pointer() string {
	parts := make([]string, 0, len(p))
	for _, k := range p {
		switch k.kind {
		case KeyIndex:
			parts = append(parts, strconv.Itoa(k.index))
		case KeyField:
			// escape '~' -> '~0', '/' -> '~1' per RFC6901
			parts = append(parts, strings.ReplaceAll(strings.ReplaceAll(k.name, "~", "~0"), "/", "~1"))
		}
	}
	if len(parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(parts, "/")
}
