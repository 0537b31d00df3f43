// Package location reads and writes location strings of the form
//
//	viewId[/key1=value1&key2=value2...]
//
// Keys and values are opaque tokens; nothing is escaped.
package location

import (
	"sort"
	"strings"
)

const (
	viewSep  = "/"
	pairSep  = "&"
	valueSep = "="
)

// Build assembles a location. Keys are written in sorted order so that the
// same parameter map always yields the same string.
func Build(view string, params map[string]string) string {
	if len(params) == 0 {
		return view
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(view)
	b.WriteString(viewSep)
	for i, k := range keys {
		if i > 0 {
			b.WriteString(pairSep)
		}
		b.WriteString(k)
		b.WriteString(valueSep)
		b.WriteString(params[k])
	}
	return b.String()
}

// Parse splits a location into its view id and raw parameters. A leading
// "#" or "#!" is ignored. Pieces without "=" become keys with an empty
// value; the last occurrence of a repeated key wins.
func Parse(loc string) (view string, params map[string]string) {
	loc = strings.TrimPrefix(loc, "#")
	loc = strings.TrimPrefix(loc, "!")

	view, rest, _ := strings.Cut(loc, viewSep)
	params = make(map[string]string)
	for _, pair := range strings.Split(rest, pairSep) {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, valueSep)
		if k == "" {
			continue
		}
		params[k] = v
	}
	return view, params
}

// View returns just the view id of loc.
func View(loc string) string {
	v, _ := Parse(loc)
	return v
}
