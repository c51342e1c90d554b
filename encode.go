package verdict

import (
	json "github.com/goccy/go-json"
)

type explanationJSON struct {
	Valid   bool         `json:"valid"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []detailJSON `json:"details,omitempty"`
}

// detailJSON repeats the explanationJSON fields instead of embedding them;
// goccy/go-json crashes on recursive embedded structs.
type detailJSON struct {
	Kind    string       `json:"kind"`
	Key     any          `json:"key"`
	Valid   bool         `json:"valid"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []detailJSON `json:"details,omitempty"`
}

func (k KeyKind) String() string {
	switch k {
	case KeyField:
		return "field"
	case KeyBranch:
		return "branch"
	default:
		return "index"
	}
}

// MarshalJSON encodes the tree; details become an ordered array whose entries
// carry their key ("kind": index|field|branch).
func (e Explanation) MarshalJSON() ([]byte, error) {
	return json.Marshal(toJSON(e))
}

func toJSON(e Explanation) explanationJSON {
	out := explanationJSON{Valid: e.valid, Code: e.code, Message: e.message}
	if n := e.details.Len(); n > 0 {
		out.Details = make([]detailJSON, 0, n)
		for _, it := range e.details.entries {
			var key any = it.Key.index
			if it.Key.kind == KeyField {
				key = it.Key.name
			}
			child := toJSON(it.Explanation)
			out.Details = append(out.Details, detailJSON{
				Kind:    it.Key.kind.String(),
				Key:     key,
				Valid:   child.Valid,
				Code:    child.Code,
				Message: child.Message,
				Details: child.Details,
			})
		}
	}
	return out
}
