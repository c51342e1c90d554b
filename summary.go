package verdict

import "strings"

// Fixed headers of Explanation.Summary.
const (
	SummaryValid   = "Data is valid."
	SummaryInvalid = "Data is not valid."
)

// Failure is an invalid Explanation without invalid children, located by its
// path from the root.
type Failure struct {
	Path        Path
	Explanation Explanation
}

// Failures walks the tree depth first in detail order and returns the leaf
// failures. Valid nodes are skipped; invalid nodes with invalid children are
// represented only by their failing descendants.
func (e Explanation) Failures() []Failure {
	var out []Failure
	collectFailures(e, nil, &out)
	return out
}

func collectFailures(e Explanation, path Path, out *[]Failure) {
	if e.valid {
		return
	}
	leaf := true
	for _, it := range e.details.entries {
		if it.Explanation.valid {
			continue
		}
		leaf = false
		collectFailures(it.Explanation, path.With(it.Key), out)
	}
	if leaf {
		*out = append(*out, Failure{Path: path, Explanation: e})
	}
}

// Summary renders a human-readable report: SummaryValid, or SummaryInvalid
// followed by one "[path] message" line per leaf failure.
func (e Explanation) Summary() string {
	if e.valid {
		return SummaryValid
	}
	b := &strings.Builder{}
	b.WriteString(SummaryInvalid)
	for _, f := range e.Failures() {
		b.WriteByte('\n')
		b.WriteString(f.Path.String())
		b.WriteByte(' ')
		b.WriteString(f.Explanation.message)
	}
	return b.String()
}

// Issues flattens the leaf failures into JSON Pointer Issues, in summary order.
func (e Explanation) Issues() Issues {
	if e.valid {
		return nil
	}
	var iss Issues
	for _, f := range e.Failures() {
		iss = AppendIssues(iss, Issue{Path: f.Path.Pointer(), Code: f.Explanation.code, Message: f.Explanation.message})
	}
	return iss
}

// String returns the summary.
func (e Explanation) String() string { return e.Summary() }
