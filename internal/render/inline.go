// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"net/url"
	"strings"

	"github.com/pdiddy/docexport/pkg/blocks"
)

// htmlEscaper protects angle brackets in ordinary text. Content inside code
// blocks and inline-code runs is left verbatim.
var htmlEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// renderElements converts a sequence of inline elements to a Markdown
// fragment. verbatim disables escaping and styling; it is set when the
// enclosing block is a code block.
func (r *Renderer) renderElements(els []blocks.TextElement, verbatim bool) string {
	var c composer
	var prevOpen, prevClose string
	inline := len(els) > 1

	for _, el := range els {
		switch {
		case el.TextRun != nil:
			if verbatim {
				c.WriteString(el.TextRun.Content)
				prevOpen, prevClose = "", ""
				continue
			}
			open, close := runWrapper(el.TextRun)
			// Two back-to-back runs with the same wrapper collapse into one
			// styled span: drop the previous close and this open.
			if open != "" && open == prevOpen && close == prevClose && c.TrimSuffix(prevClose) {
				open = ""
			} else {
				c.WriteString(open)
				prevOpen = open
			}
			c.WriteString(escapeRun(el.TextRun))
			c.WriteString(close)
			prevClose = close
			if prevOpen == "" {
				prevClose = ""
			}
		case el.Equation != nil:
			content := strings.TrimSpace(el.Equation.Content)
			if inline {
				c.WriteString("$" + content + "$")
			} else {
				c.WriteString("$$" + content + "$$")
			}
			prevOpen, prevClose = "", ""
		case el.MentionDoc != nil:
			c.WriteString("[" + el.MentionDoc.Title + "](" + percentDecode(el.MentionDoc.URL) + ")")
			prevOpen, prevClose = "", ""
		case el.InlineFile != nil:
			name := el.InlineFile.Name
			if name == "" {
				name = el.InlineFile.FileToken
			}
			c.WriteString("[" + name + "](" + el.InlineFile.FileToken + ")")
			r.collect(el.InlineFile.FileToken, KindFile)
			prevOpen, prevClose = "", ""
		}
	}
	return c.String()
}

// runWrapper picks the open/close delimiters for a run. The style flags are
// independent booleans upstream but only one is ever applied, first match
// wins: bold, italic, strikethrough, underline, inline code, link. Runs
// ending in a colon (ASCII or full-width) use explicit HTML tags instead of
// Markdown emphasis, since trailing-colon emphasis markers are misparsed by
// some Markdown engines.
func runWrapper(run *blocks.TextRun) (open, close string) {
	style := run.Style
	if style == nil {
		return "", ""
	}
	colon := strings.HasSuffix(run.Content, ":") || strings.HasSuffix(run.Content, "：")
	switch {
	case style.Bold:
		if colon {
			return "<b>", "</b>"
		}
		return "**", "**"
	case style.Italic:
		if colon {
			return "<i>", "</i>"
		}
		return "*", "*"
	case style.Strikethrough:
		if colon {
			return "<s>", "</s>"
		}
		return "~~", "~~"
	case style.Underline:
		return "<u>", "</u>"
	case style.InlineCode:
		return "`", "`"
	case style.Link != nil:
		return "[", "](" + percentDecode(style.Link.URL) + ")"
	}
	return "", ""
}

// escapeRun escapes angle brackets unless the run is inline code, which is
// already delimited and stays verbatim.
func escapeRun(run *blocks.TextRun) string {
	if run.Style != nil && run.Style.InlineCode {
		return run.Content
	}
	return htmlEscaper.Replace(run.Content)
}

// percentDecode unescapes a percent-encoded target, falling back to the raw
// value when it is not valid encoding.
func percentDecode(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}
