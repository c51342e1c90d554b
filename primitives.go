package verdict

import (
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"strings"
)

// IsStr accepts strings (including named string types, excluding json.Number).
func IsStr() Predicate { return Leaf(CodeNotAString, "%s is not a string", isString) }

// IsInt accepts Go integer kinds and integral json.Number values ("3", not
// "3.0"). Booleans are not integers.
func IsInt() Predicate { return Leaf(CodeNotAnInt, "%s is not an int", isInt) }

// IsFloat accepts float kinds and json.Number values written with a fraction
// or exponent.
func IsFloat() Predicate { return Leaf(CodeNotAFloat, "%s is not a float", isFloat) }

// IsNumber accepts any integer or float kind and any json.Number.
func IsNumber() Predicate {
	return Leaf(CodeNotANumber, "%s is not a number", func(v any) bool {
		_, ok := toFloat(v)
		return ok
	})
}

// IsBool accepts booleans.
func IsBool() Predicate {
	return Leaf(CodeNotABool, "%s is not a bool", func(v any) bool {
		_, ok := v.(bool)
		return ok
	})
}

// IsNil accepts untyped nil and nil pointers, maps, slices, interfaces,
// channels and functions.
func IsNil() Predicate { return Leaf(CodeNotNil, "%s is not nil", isNil) }

// IsList accepts any sequence (see AsList).
func IsList() Predicate {
	return Leaf(CodeNotAList, "%s is not a list", func(v any) bool {
		_, ok := AsList(v)
		return ok
	})
}

// IsDict accepts any mapping (see AsDict).
func IsDict() Predicate {
	return Leaf(CodeNotADict, "%s is not a dict", func(v any) bool {
		_, ok := AsDict(v)
		return ok
	})
}

func isString(v any) bool {
	_, ok := stringValue(v)
	return ok
}

// stringValue unwraps string kinds, including named string types. json.Number
// is a number, not a string.
func stringValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number, nil:
		return "", false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

func isInt(v any) bool {
	if n, ok := v.(json.Number); ok {
		s := n.String()
		return isNumberLiteral(s) && !strings.ContainsAny(s, ".eE")
	}
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func isFloat(v any) bool {
	if n, ok := v.(json.Number); ok {
		s := n.String()
		return isNumberLiteral(s) && strings.ContainsAny(s, ".eE")
	}
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// toFloat converts numeric values (integer and float kinds, json.Number) to
// float64. Booleans and numeric strings are not numbers. A json.Number beyond
// the float64 range converts to ±Inf.
func toFloat(v any) (float64, bool) {
	if n, ok := v.(json.Number); ok {
		if !isNumberLiteral(n.String()) {
			return 0, false
		}
		f, err := strconv.ParseFloat(n.String(), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
		return f, true
	}
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// isNumberLiteral reports whether s follows the JSON number grammar
// (RFC 8259 section 6): -?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?
func isNumberLiteral(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	switch {
	case i < len(s) && s[i] == '0':
		i++
	case i < len(s) && s[i] >= '1' && s[i] <= '9':
		i = skipDigits(s, i)
	default:
		return false
	}
	if i < len(s) && s[i] == '.' {
		j := skipDigits(s, i+1)
		if j == i+1 {
			return false
		}
		i = j
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		j := skipDigits(s, i)
		if j == i {
			return false
		}
		i = j
	}
	return i == len(s)
}

func skipDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}
