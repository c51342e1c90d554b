package verdict

import (
	"reflect"
	"slices"
	"strings"
	"time"
)

// List is a read-only view over a sequence value.
type List interface {
	Len() int
	At(i int) any
}

// Dict is a read-only view over a mapping value keyed by strings.
type Dict interface {
	Len() int
	Lookup(key string) (any, bool)
	// Keys returns the keys in sorted order.
	Keys() []string
}

// AsList views v as a sequence. Slices and arrays qualify; strings and byte
// slices do not. A nil slice is an empty sequence, untyped nil is not one.
func AsList(v any) (List, bool) {
	switch t := v.(type) {
	case nil, string, []byte:
		return nil, false
	case []any:
		return anyList(t), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false
		}
		return reflectList{rv: rv}, true
	default:
		return nil, false
	}
}

type anyList []any

func (l anyList) Len() int     { return len(l) }
func (l anyList) At(i int) any { return l[i] }

type reflectList struct{ rv reflect.Value }

func (l reflectList) Len() int     { return l.rv.Len() }
func (l reflectList) At(i int) any { return l.rv.Index(i).Interface() }

// AsDict views v as a mapping. Maps whose key kind is string qualify, as do
// structs and non-nil pointers to structs (keys resolved by ResolveStructKey).
// time.Time is a scalar.
func AsDict(v any) (Dict, bool) {
	switch t := v.(type) {
	case nil, time.Time, *time.Time:
		return nil, false
	case map[string]any:
		return anyDict(t), true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		return reflectDict{rv: rv}, true
	case reflect.Struct:
		return newStructDict(rv), true
	default:
		return nil, false
	}
}

type anyDict map[string]any

func (d anyDict) Len() int { return len(d) }
func (d anyDict) Lookup(key string) (any, bool) {
	v, ok := d[key]
	return v, ok
}
func (d anyDict) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

type reflectDict struct{ rv reflect.Value }

func (d reflectDict) Len() int { return d.rv.Len() }
func (d reflectDict) Lookup(key string) (any, bool) {
	mv := d.rv.MapIndex(reflect.ValueOf(key).Convert(d.rv.Type().Key()))
	if !mv.IsValid() {
		return nil, false
	}
	return mv.Interface(), true
}
func (d reflectDict) Keys() []string {
	keys := make([]string, 0, d.rv.Len())
	for _, k := range d.rv.MapKeys() {
		keys = append(keys, k.String())
	}
	slices.Sort(keys)
	return keys
}

type structDict struct {
	rv     reflect.Value
	fields map[string]int
}

func newStructDict(rv reflect.Value) structDict {
	rt := rv.Type()
	fields := make(map[string]int, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := ResolveStructKey(sf)
		if name == "-" {
			continue
		}
		fields[name] = i
	}
	return structDict{rv: rv, fields: fields}
}

func (d structDict) Len() int { return len(d.fields) }
func (d structDict) Lookup(key string) (any, bool) {
	i, ok := d.fields[key]
	if !ok {
		return nil, false
	}
	return d.rv.Field(i).Interface(), true
}
func (d structDict) Keys() []string {
	keys := make([]string, 0, len(d.fields))
	for k := range d.fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ResolveStructKey resolves the mapping key of a struct field.
// Priority: verdict:"name" > json tag name > field name; "-" hides the field.
func ResolveStructKey(sf reflect.StructField) string {
	if vt := sf.Tag.Get("verdict"); vt != "" {
		if i := strings.IndexByte(vt, ','); i >= 0 {
			vt = vt[:i]
		}
		if vt != "" {
			return vt
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			jt = jt[:i]
		}
		if jt != "" {
			return jt
		}
	}
	return sf.Name
}
