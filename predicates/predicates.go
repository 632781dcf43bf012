// Package predicates is a registry of named predicates over dynamically
// typed values, as decoded from JSON or YAML documents.
package predicates

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/vasilisp/cunone"
)

var ErrUnknown = errors.New("unknown predicate")

// Entry describes a registered predicate. Make receives the text after the
// first ':' of the looked up name, or "" when there is none.
type Entry struct {
	Doc      string
	Argument string
	Make     func(arg string) (cunone.Predicate[any], error)
}

var registry = orderedmap.New[string, Entry]()

// Register adds or replaces a named predicate. Names keep the position of
// their first registration.
func Register(name string, entry Entry) {
	registry.Set(name, entry)
}

// Names lists the registered predicates in registration order.
func Names() []string {
	names := make([]string, 0, registry.Len())
	for pair := registry.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Describe returns the entry registered under name.
func Describe(name string) (Entry, bool) {
	return registry.Get(name)
}

// Lookup resolves a predicate spec such as "positive" or "contains:foo".
func Lookup(spec string) (cunone.Predicate[any], error) {
	name, arg, hasArg := strings.Cut(spec, ":")

	entry, ok := registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}

	if hasArg && entry.Argument == "" {
		return nil, fmt.Errorf("predicate %q takes no argument", name)
	}
	if !hasArg && entry.Argument != "" {
		return nil, fmt.Errorf("predicate %q requires %s", name, entry.Argument)
	}

	return entry.Make(arg)
}

func fixed(f func(v any) bool) func(string) (cunone.Predicate[any], error) {
	return func(string) (cunone.Predicate[any], error) {
		return func(v any, _ int, _ cunone.Array[any]) bool {
			return f(v)
		}, nil
	}
}

func threshold(cmp func(a, b float64) bool) func(string) (cunone.Predicate[any], error) {
	return func(arg string) (cunone.Predicate[any], error) {
		limit, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
		if err != nil {
			return nil, fmt.Errorf("threshold %q: %w", arg, err)
		}

		return func(v any, _ int, _ cunone.Array[any]) bool {
			return cmp(ToNumber(v), limit)
		}, nil
	}
}

func init() {
	Register("positive", Entry{
		Doc:  "value coerced to a number is greater than zero",
		Make: fixed(func(v any) bool { return ToNumber(v) > 0 }),
	})
	Register("negative", Entry{
		Doc:  "value coerced to a number is less than zero",
		Make: fixed(func(v any) bool { return ToNumber(v) < 0 }),
	})
	Register("zero", Entry{
		Doc:  "value coerced to a number equals zero",
		Make: fixed(func(v any) bool { return ToNumber(v) == 0 }),
	})
	Register("null", Entry{
		Doc:  "value is null",
		Make: fixed(func(v any) bool { return v == nil }),
	})
	Register("truthy", Entry{
		Doc:  "value is neither null, false, zero, NaN nor the empty string",
		Make: fixed(Truthy),
	})
	Register("blank", Entry{
		Doc:  "value is a string holding only whitespace",
		Make: fixed(blank),
	})
	Register("gt", Entry{
		Doc:      "value coerced to a number is greater than the argument",
		Argument: "a number",
		Make:     threshold(func(a, b float64) bool { return a > b }),
	})
	Register("lt", Entry{
		Doc:      "value coerced to a number is less than the argument",
		Argument: "a number",
		Make:     threshold(func(a, b float64) bool { return a < b }),
	})
	Register("contains", Entry{
		Doc:      "value is a string containing the argument, ignoring case",
		Argument: "a text",
		Make:     contains,
	})
}

func blank(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return strings.TrimFunc(norm.NFKC.String(s), unicode.IsSpace) == ""
}

func fold(s string) string {
	return cases.Fold().String(norm.NFKC.String(s))
}

func contains(arg string) (cunone.Predicate[any], error) {
	needle := fold(arg)

	return func(v any, _ int, _ cunone.Array[any]) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		return strings.Contains(fold(s), needle)
	}, nil
}

// ToNumber coerces v to a float64 the way loosely typed comparisons do:
// booleans become 0 or 1, null becomes 0, numeric strings are parsed and
// anything else is NaN.
func ToNumber(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case bool:
		if n {
			return 1
		}
		return 0
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// Truthy reports whether v counts as true in a boolean context.
func Truthy(v any) bool {
	switch n := v.(type) {
	case nil:
		return false
	case bool:
		return n
	case string:
		return n != ""
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		f := ToNumber(n)
		return f != 0 && !math.IsNaN(f)
	default:
		return true
	}
}
