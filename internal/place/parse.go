// Package place parses free-text route strings and matches place names
// against catalog city records, including the "Name (Country)"
// composite form.
package place

import (
	"regexp"
	"strings"
)

var (
	routeDelimRe = regexp.MustCompile(`[-—>，,]`)
	compositeRe  = regexp.MustCompile(`^(.+?)\s*\((.+?)\)$`)
)

// SplitRoute splits a route string into its ordered place names.
// Any of the delimiters - — > ， , separates segments; segments are
// trimmed and empty ones dropped. Order matters: the first entry is the
// day's origin and the last its final destination.
func SplitRoute(route string) []string {
	if route == "" {
		return nil
	}
	parts := routeDelimRe.Split(route, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LastStop returns the final place name of a route, or "" when the
// route has no segments.
func LastStop(route string) string {
	places := SplitRoute(route)
	if len(places) == 0 {
		return ""
	}
	return places[len(places)-1]
}

// SplitComposite splits a composite place name "Prefix (Parenthetical)"
// into its two parts. Only a single trailing parenthetical is
// recognized; anything else reports ok=false and the name is treated as
// plain.
func SplitComposite(name string) (prefix, parenthetical string, ok bool) {
	if !strings.Contains(name, "(") || !strings.Contains(name, ")") {
		return "", "", false
	}
	m := compositeRe.FindStringSubmatch(name)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
}
