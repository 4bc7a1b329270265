// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import "strings"

// composer is an append-only text accumulator. Beyond plain appends it can
// trim a trailing suffix, which the inline composer uses to merge adjacent
// identically-styled runs, and prefix multi-line fragments for indented or
// quoted contexts.
type composer struct {
	b strings.Builder
}

func (c *composer) WriteString(s string) {
	c.b.WriteString(s)
}

// TrimSuffix removes suffix from the end of the accumulated text and reports
// whether it was present.
func (c *composer) TrimSuffix(suffix string) bool {
	s := c.b.String()
	if suffix == "" || !strings.HasSuffix(s, suffix) {
		return false
	}
	c.b.Reset()
	c.b.WriteString(s[:len(s)-len(suffix)])
	return true
}

func (c *composer) Len() int {
	return c.b.Len()
}

func (c *composer) String() string {
	return c.b.String()
}

// indentLines prefixes every non-empty line of s with indent.
func indentLines(s, indent string) string {
	if s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}

// quoteLines prefixes every line of s with "> ". Empty lines become ">" so
// that a multi-paragraph fragment stays one contiguous quote. The trailing
// newline region of s is left untouched.
func quoteLines(s string) string {
	trimmed := strings.TrimRight(s, "\n")
	tail := s[len(trimmed):]
	lines := strings.Split(trimmed, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
		} else {
			lines[i] = "> " + line
		}
	}
	return strings.Join(lines, "\n") + tail
}
