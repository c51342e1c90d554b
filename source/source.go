// Package source decodes JSON and YAML documents into the generic value
// shapes verdict predicates inspect: map[string]any, []any, string, bool,
// nil and numbers.
//
// JSON numbers are kept as json.Number (encoding/json's type, produced by
// goccy/go-json with UseNumber) so integer and float literals stay
// distinguishable. YAML numbers are decoded as int or float64.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

var (
	// ErrTooLarge is returned when the input exceeds WithMaxBytes.
	ErrTooLarge = errors.New("source: max bytes exceeded")
	// ErrTrailingData is returned when a JSON document is followed by more data.
	ErrTrailingData = errors.New("source: trailing data after JSON value")
)

// Option configures decoding.
type Option func(*options)

type options struct {
	maxBytes int64
}

// WithMaxBytes caps the input size; zero or negative disables the cap.
func WithMaxBytes(n int64) Option { return func(o *options) { o.maxBytes = n } }

func buildOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// JSON decodes a single JSON document.
func JSON(data []byte, opts ...Option) (any, error) {
	o := buildOptions(opts)
	if o.maxBytes > 0 && int64(len(data)) > o.maxBytes {
		return nil, ErrTooLarge
	}
	return decodeJSON(bytes.NewReader(data))
}

// JSONReader reads and decodes a single JSON document from r.
func JSONReader(r io.Reader, opts ...Option) (any, error) {
	o := buildOptions(opts)
	if o.maxBytes > 0 {
		data, err := readLimited(r, o.maxBytes)
		if err != nil {
			return nil, err
		}
		return decodeJSON(bytes.NewReader(data))
	}
	return decodeJSON(r)
}

func decodeJSON(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("source: decode json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}
	return v, nil
}

// YAML decodes the first document of a YAML stream. Mappings are normalized
// to map[string]any; entries with non-string keys are dropped.
func YAML(data []byte, opts ...Option) (any, error) {
	docs, err := yamlDocuments(data, opts, 1)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return docs[0], nil
}

// YAMLDocuments decodes every document of a multi-document YAML stream.
func YAMLDocuments(data []byte, opts ...Option) ([]any, error) {
	return yamlDocuments(data, opts, -1)
}

func yamlDocuments(data []byte, opts []Option, limit int) ([]any, error) {
	o := buildOptions(opts)
	if o.maxBytes > 0 && int64(len(data)) > o.maxBytes {
		return nil, ErrTooLarge
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs []any
	for limit < 0 || len(docs) < limit {
		var node any
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("source: decode yaml: %w", err)
		}
		docs = append(docs, yamlNormalizeValue(node))
	}
	return docs, nil
}

func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = yamlNormalizeValue(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}

func readLimited(r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("source: read: %w", err)
	}
	if int64(len(data)) > max {
		return nil, ErrTooLarge
	}
	return data, nil
}
