package verdict

import (
	"errors"
	"fmt"
	"strings"
)

// Explanation codes (exported consts for IDE completion and type safety by convention)
const (
	CodeOK = "ok"

	// Leaf predicates
	CodeNotAString   = "not_a_string"
	CodeNotAnInt     = "not_an_int"
	CodeNotAFloat    = "not_a_float"
	CodeNotANumber   = "not_a_number"
	CodeNotABool     = "not_a_bool"
	CodeNotNil       = "not_nil"
	CodeNotADate     = "not_a_date"
	CodeNotADatetime = "not_a_datetime"
	CodeNotAUUID     = "not_a_uuid"
	CodeNoMatch      = "no_match"
	CodeNotIn        = "not_in"
	CodeNotEqual     = "not_equal"
	CodeTooSmall     = "too_small"
	CodeTooBig       = "too_big"

	// Structural and logical combinators
	CodeNotAList    = "not_a_list"
	CodeNotADict    = "not_a_dict"
	CodeNotAllValid = "not_all_valid"
	CodeMissingKey  = "missing_key"
	CodeUnknownKey  = "unknown_key"
	CodeNoneValid   = "none_valid"
	CodeNotNegated  = "not_negated"

	// Rules (see package rules)
	CodeNoLength  = "no_length"
	CodeTooShort  = "too_short"
	CodeTooLong   = "too_long"
	CodeNotUnique = "not_unique"
)

// Issue is a flattened leaf failure located by a JSON Pointer.
type Issue struct {
	Path    string `json:"path"` // JSON Pointer (for example: /1/pubdate).
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Issues is a collection of leaf failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. not_a_date at /1/pubdate
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
