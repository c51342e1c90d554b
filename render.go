package verdict

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Renderer embeds an arbitrary value into a human message.
type Renderer func(v any) string

var (
	rendererMu      sync.RWMutex
	currentRenderer Renderer = Repr
)

// SetRenderer replaces the process-wide value renderer used by messages and
// summary paths; nil values are ignored.
func SetRenderer(r Renderer) {
	if r == nil {
		return
	}
	rendererMu.Lock()
	currentRenderer = r
	rendererMu.Unlock()
}

// UseDefaultRenderer restores Repr.
func UseDefaultRenderer() {
	rendererMu.Lock()
	currentRenderer = Repr
	rendererMu.Unlock()
}

// Render renders v with the current renderer.
func Render(v any) string {
	rendererMu.RLock()
	r := currentRenderer
	rendererMu.RUnlock()
	return r(v)
}

// Limits on how much of a value Repr renders; the rest becomes "...".
const (
	maxReprDepth = 16
	maxReprNodes = 1024
)

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\t", `\t`, "\r", `\r`)

// Repr is the default Renderer. Strings are single-quoted ('abc'), nil is
// "nil", numbers use their shortest form, sequences render as [a, b] and
// mappings as {'k': v} with sorted keys.
func Repr(v any) string {
	r := &reprWriter{b: &strings.Builder{}}
	r.write(v, 0)
	return r.b.String()
}

// visit identifies a map, slice or pointer on the current rendering path.
type visit struct {
	ptr uintptr
	typ reflect.Type
	len int
}

// reprWriter renders one value. A map, slice or pointer already on the
// current path renders as "...".
type reprWriter struct {
	b     *strings.Builder
	path  map[visit]struct{}
	nodes int
}

func (r *reprWriter) enter(rv reflect.Value) bool {
	if rv.Pointer() == 0 {
		return true
	}
	k := visit{ptr: rv.Pointer(), typ: rv.Type()}
	if rv.Kind() == reflect.Slice {
		k.len = rv.Len()
	}
	if _, onPath := r.path[k]; onPath {
		return false
	}
	if r.path == nil {
		r.path = map[visit]struct{}{}
	}
	r.path[k] = struct{}{}
	return true
}

func (r *reprWriter) leave(rv reflect.Value) {
	if rv.Pointer() == 0 {
		return
	}
	k := visit{ptr: rv.Pointer(), typ: rv.Type()}
	if rv.Kind() == reflect.Slice {
		k.len = rv.Len()
	}
	delete(r.path, k)
}

func (r *reprWriter) write(v any, depth int) {
	b := r.b
	r.nodes++
	if depth > maxReprDepth || r.nodes > maxReprNodes {
		b.WriteString("...")
		return
	}
	switch t := v.(type) {
	case nil:
		b.WriteString("nil")
		return
	case string:
		writeQuoted(b, t)
		return
	case json.Number:
		b.WriteString(t.String())
		return
	case bool:
		b.WriteString(strconv.FormatBool(t))
		return
	case time.Time:
		b.WriteString(t.Format(time.RFC3339Nano))
		return
	case []byte:
		writeQuoted(b, string(t))
		return
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		writeQuoted(b, rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b.WriteString(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		b.WriteString(strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32:
		b.WriteString(strconv.FormatFloat(rv.Float(), 'g', -1, 32))
	case reflect.Float64:
		b.WriteString(strconv.FormatFloat(rv.Float(), 'g', -1, 64))
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			b.WriteString("nil")
			return
		}
		if rv.Kind() == reflect.Pointer {
			if !r.enter(rv) {
				b.WriteString("...")
				return
			}
			defer r.leave(rv)
		}
		r.write(rv.Elem().Interface(), depth+1)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice {
			if rv.IsNil() {
				b.WriteString("[]")
				return
			}
			if !r.enter(rv) {
				b.WriteString("...")
				return
			}
			defer r.leave(rv)
		}
		b.WriteByte('[')
		for i := 0; i < rv.Len(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			r.write(rv.Index(i).Interface(), depth+1)
		}
		b.WriteByte(']')
	case reflect.Map:
		if !r.enter(rv) {
			b.WriteString("...")
			return
		}
		defer r.leave(rv)
		type entry struct{ k, v string }
		entries := make([]entry, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k, val := r.sub(iter.Key().Interface(), depth+1), r.sub(iter.Value().Interface(), depth+1)
			entries = append(entries, entry{k: k, v: val})
		}
		slices.SortFunc(entries, func(a, b entry) int { return strings.Compare(a.k, b.k) })
		b.WriteByte('{')
		for i, e := range entries {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(e.k)
			b.WriteString(": ")
			b.WriteString(e.v)
		}
		b.WriteByte('}')
	default:
		fmt.Fprintf(b, "%v", v)
	}
}

// sub renders v into its own buffer while sharing the current path.
func (r *reprWriter) sub(v any, depth int) string {
	outer := r.b
	r.b = &strings.Builder{}
	r.write(v, depth)
	out := r.b.String()
	r.b = outer
	return out
}

func writeQuoted(b *strings.Builder, s string) {
	b.WriteByte('\'')
	b.WriteString(quoteReplacer.Replace(s))
	b.WriteByte('\'')
}
