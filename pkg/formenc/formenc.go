// Package formenc implements application/x-www-form-urlencoded encoding for
// scalars and parameter maps, as used for query strings and form bodies.
package formenc

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Map is a parameter map. Values may be scalars or nested maps.
type Map = map[string]any

// Encode converts a value to its form-urlencoded representation. A map
// becomes key=value pairs joined by "&", with each key and value passed
// through Encode recursively, so nested maps flatten in place. Anything
// else is converted to its string form and percent-encoded, with space
// encoded as "+".
//
// Map keys are emitted in sorted order so output is stable within a
// process; callers must not rely on any particular ordering.
func Encode(v any) string {
	switch m := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]string, 0, len(m))
		for _, k := range keys {
			pairs = append(pairs, Encode(k)+"="+Encode(m[k]))
		}
		return strings.Join(pairs, "&")
	case map[string]string:
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]string, 0, len(m))
		for _, k := range keys {
			pairs = append(pairs, Encode(k)+"="+Encode(m[k]))
		}
		return strings.Join(pairs, "&")
	default:
		return url.QueryEscape(toString(v))
	}
}

// Decode reverses the scalar encoding: percent escapes are expanded and "+"
// becomes a space. Decode(Encode(s)) == s for every string s.
func Decode(s string) (string, error) {
	return url.QueryUnescape(s)
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
