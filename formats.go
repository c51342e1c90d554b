package verdict

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the layout accepted by IsDate for string values.
const DateLayout = "2006-01-02"

// IsDate accepts time.Time values and strings (any string kind) in YYYY-MM-DD
// form.
func IsDate() Predicate {
	return Leaf(CodeNotADate, "%s is not a date", func(v any) bool {
		if _, ok := v.(time.Time); ok {
			return true
		}
		s, ok := stringValue(v)
		if !ok {
			return false
		}
		_, err := time.Parse(DateLayout, s)
		return err == nil
	})
}

// IsDatetime accepts time.Time values and RFC 3339 strings (fractional
// seconds optional).
func IsDatetime() Predicate {
	return Leaf(CodeNotADatetime, "%s is not a datetime", func(v any) bool {
		if _, ok := v.(time.Time); ok {
			return true
		}
		s, ok := stringValue(v)
		if !ok {
			return false
		}
		_, err := parseRFC3339(s)
		return err == nil
	})
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

// IsUUID accepts UUID strings in the canonical 8-4-4-4-12 form.
func IsUUID() Predicate {
	return Leaf(CodeNotAUUID, "%s is not a uuid", func(v any) bool {
		s, ok := stringValue(v)
		// Fast rejection: check length and hyphen positions before parsing
		if !ok || len(s) != 36 {
			return false
		}
		if s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
			return false
		}
		_, err := uuid.Parse(s)
		return err == nil
	})
}

// IsMatch compiles pattern and returns a predicate accepting strings that
// contain a match. Anchor the pattern (^...$) to require a full match.
func IsMatch(pattern string) (Predicate, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("verdict: compile pattern %q: %w", pattern, err)
	}
	return MatchRegexp(re), nil
}

// MustMatch is like IsMatch but panics when the pattern does not compile.
func MustMatch(pattern string) Predicate {
	p, err := IsMatch(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// MatchRegexp returns a predicate over an already compiled pattern.
func MatchRegexp(re *regexp.Regexp) Predicate {
	if re == nil {
		panic("verdict.MatchRegexp: regexp must not be nil")
	}
	return Leaf(CodeNoMatch, "%s does not match /"+escapePercent(re.String())+"/", func(v any) bool {
		s, ok := stringValue(v)
		return ok && re.MatchString(s)
	})
}

func escapePercent(s string) string { return strings.ReplaceAll(s, "%", "%%") }
