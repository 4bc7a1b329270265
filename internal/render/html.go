// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/pdiddy/docexport/pkg/blocks"
)

// htmlConverter turns already-rendered Markdown into HTML for blocks that
// nest inside raw HTML containers. Raw Markdown left inside an HTML wrapper
// is not reliably re-parsed downstream, so the conversion is structurally
// required. WithUnsafe keeps embedded tags (img, iframe) intact.
var htmlConverter = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// markdownToHTML converts a Markdown fragment to HTML. On converter failure
// the fragment is returned unchanged; a degraded nested block beats losing
// its content.
func markdownToHTML(md string) string {
	var buf bytes.Buffer
	if err := htmlConverter.Convert([]byte(md), &buf); err != nil {
		return md
	}
	return strings.TrimSpace(buf.String())
}

// Callout palettes keyed by the numeric color IDs the API uses. An unknown
// ID simply omits that piece of styling.
var calloutBackgrounds = map[int]string{
	1:  "#fef1f1",
	2:  "#fff5eb",
	3:  "#fefff0",
	4:  "#f0fbef",
	5:  "#f0f4ff",
	6:  "#f6f1fe",
	7:  "#fdf0f8",
	8:  "#f2f3f5",
	9:  "#fbbfbc",
	10: "#fed4a4",
	11: "#fff67a",
	12: "#b7edb1",
	13: "#bacefd",
	14: "#cdb2fa",
	15: "#f9aeec",
}

var calloutBorders = map[int]string{
	1: "#fbbfbc",
	2: "#fed4a4",
	3: "#fff67a",
	4: "#b7edb1",
	5: "#bacefd",
	6: "#cdb2fa",
	7: "#dee0e3",
}

var fontColors = map[int]string{
	1: "#d83931",
	2: "#de7802",
	3: "#dc9b04",
	4: "#2ea121",
	5: "#245bdb",
	6: "#6425d0",
	7: "#646a73",
}

// renderCallout wraps the callout's children, converted to HTML, in a styled
// div. Missing palette entries drop the corresponding style declaration.
func (r *Renderer) renderCallout(b *blocks.Block, ctx renderContext) string {
	var style []string
	if bg, ok := calloutBackgrounds[b.Callout.BackgroundColor]; ok {
		style = append(style, "background-color:"+bg)
	}
	if border, ok := calloutBorders[b.Callout.BorderColor]; ok {
		style = append(style, "border:1px solid "+border)
	}
	if color, ok := fontColors[b.Callout.TextColor]; ok {
		style = append(style, "color:"+color)
	}
	style = append(style, "padding:8px", "border-radius:8px")

	inner := markdownToHTML(r.renderChildren(b.Children, ctx.nest()))
	return fmt.Sprintf("<div style=\"%s\">\n%s\n</div>\n\n", strings.Join(style, ";"), inner)
}

// renderGrid lays the grid columns out as a flex row, each column a div
// sized by its width ratio. Column children are converted to HTML before
// nesting.
func (r *Renderer) renderGrid(b *blocks.Block, ctx renderContext) string {
	var sb strings.Builder
	sb.WriteString("<div style=\"display:flex;gap:16px\">\n")
	for _, id := range b.Children {
		col, ok := r.index[id]
		if !ok {
			continue
		}
		ratio := 0
		if col.GridColumn != nil {
			ratio = col.GridColumn.WidthRatio
		}
		if ratio > 0 {
			fmt.Fprintf(&sb, "<div style=\"flex:%d\">\n", ratio)
		} else {
			sb.WriteString("<div style=\"flex:1\">\n")
		}
		sb.WriteString(markdownToHTML(r.renderChildren(col.Children, ctx.nest())))
		sb.WriteString("\n</div>\n")
	}
	sb.WriteString("</div>\n\n")
	return sb.String()
}
