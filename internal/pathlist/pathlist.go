// Package pathlist handles separator-delimited directory lists such as PATH.
//
// Comparison follows Windows rules regardless of the host: case is folded,
// forward and back slashes are treated alike and trailing separators are
// ignored.
package pathlist

import (
	"strings"
)

// Normalize returns the comparison key for a directory.
func Normalize(dir string) string {
	d := strings.TrimSpace(dir)
	d = strings.Trim(d, `"`)
	d = strings.ReplaceAll(d, "/", `\`)
	d = strings.TrimRight(d, `\`)
	return strings.ToLower(d)
}

// Equal reports whether two directory strings name the same entry.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Split breaks value on sep, dropping empty segments.
func Split(value, sep string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(value, sep) {
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Contains reports whether dir is already one of the segments of value.
func Contains(value, sep, dir string) bool {
	key := Normalize(dir)
	if key == "" {
		return false
	}
	for _, p := range Split(value, sep) {
		if Normalize(p) == key {
			return true
		}
	}
	return false
}

// Append adds dir to value using sep unless it is already present.
// The second return value reports whether value changed.
func Append(value, sep, dir string) (string, bool) {
	if Normalize(dir) == "" || Contains(value, sep, dir) {
		return value, false
	}
	switch {
	case value == "":
		return dir, true
	case strings.HasSuffix(value, sep):
		return value + dir, true
	default:
		return value + sep + dir, true
	}
}

// HasSuffix reports whether dir ends with suffix on a segment boundary,
// using the same normalization as Equal.
func HasSuffix(dir, suffix string) bool {
	d, s := Normalize(dir), strings.TrimLeft(Normalize(suffix), `\`)
	if s == "" {
		return false
	}
	if d == s {
		return true
	}
	return strings.HasSuffix(d, `\`+s)
}
