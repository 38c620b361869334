// Package sanitize strips markup from user-entered form values.
package sanitize

import (
	"strings"

	"golang.org/x/net/html"
)

// String removes every tag, attribute, comment and doctype from raw and
// returns the remaining text unchanged, whitespace included. The content of
// script and style elements is dropped. Removal is repeated until nothing
// changes, so String(String(s)) == String(s).
func String(raw string) string {
	out := raw
	for {
		next := strip(out)
		if next == out {
			return out
		}
		out = next
	}
}

// strip makes a single tokenizer pass. Its output is always a subsequence of
// s, so repeated application terminates.
func strip(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}

	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	b.Grow(len(s))
	hidden := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			if hidden == 0 {
				b.Write(z.Raw())
			}
		case html.StartTagToken:
			if name, _ := z.TagName(); dropsContent(name) {
				hidden++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); dropsContent(name) && hidden > 0 {
				hidden--
			}
		}
	}
}

func dropsContent(tag []byte) bool {
	switch string(tag) {
	case "script", "style":
		return true
	}
	return false
}
