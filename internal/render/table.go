// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"strings"

	"github.com/pdiddy/docexport/pkg/blocks"
)

// wideColumnThreshold is the declared column width above which a table is
// rendered as HTML; pipe tables have no way to honor explicit widths.
const wideColumnThreshold = 100

// renderTable emits a GFM pipe table for simple layouts and a full HTML
// table when merged cells or wide columns make pipes insufficient.
func (r *Renderer) renderTable(b *blocks.Block, ctx renderContext) string {
	table := b.Table
	if table == nil || table.Property.RowSize == 0 || table.Property.ColumnSize == 0 {
		return ""
	}
	cells := table.Cells
	if len(cells) == 0 {
		cells = b.Children
	}
	if tableIsComplex(table) {
		return r.renderHTMLTable(table, cells, ctx)
	}
	return r.renderPipeTable(table, cells, ctx)
}

// tableIsComplex reports whether any merge span exceeds 1 or any declared
// column width exceeds the threshold.
func tableIsComplex(table *blocks.TableBlock) bool {
	for _, mi := range table.Property.MergeInfo {
		if mi.RowSpan > 1 || mi.ColSpan > 1 {
			return true
		}
	}
	for _, w := range table.Property.ColumnWidth {
		if w > wideColumnThreshold {
			return true
		}
	}
	return false
}

// cellMarkdown renders one cell's subtree. The cell block may be missing
// from a partial tree, in which case the cell is empty.
func (r *Renderer) cellMarkdown(id string, ctx renderContext) string {
	cell, ok := r.index[id]
	if !ok {
		return ""
	}
	return r.renderChildren(cell.Children, ctx.nest())
}

// flattenCell collapses a rendered cell to a single line: pipe table cells
// cannot contain literal newlines.
func flattenCell(s string) string {
	s = strings.TrimRight(s, "\n")
	s = strings.ReplaceAll(s, "\n\n", "\n")
	return strings.ReplaceAll(s, "\n", " ")
}

func (r *Renderer) renderPipeTable(table *blocks.TableBlock, cells []string, ctx renderContext) string {
	prop := table.Property
	rows := make([][]string, 0, prop.RowSize)
	for row := 0; row < prop.RowSize; row++ {
		line := make([]string, 0, prop.ColumnSize)
		for col := 0; col < prop.ColumnSize; col++ {
			idx := row*prop.ColumnSize + col
			var content string
			if idx < len(cells) {
				content = flattenCell(r.cellMarkdown(cells[idx], ctx))
			}
			line = append(line, content)
		}
		rows = append(rows, line)
	}

	separator := make([]string, prop.ColumnSize)
	for i := range separator {
		separator[i] = "---"
	}

	var sb strings.Builder
	writeRow := func(cols []string) {
		sb.WriteString("|")
		for _, c := range cols {
			sb.WriteString(c)
			sb.WriteString("|")
		}
		sb.WriteString("\n")
	}

	body := rows
	if prop.HeaderRow && len(rows) > 0 {
		writeRow(rows[0])
		body = rows[1:]
	} else {
		writeRow(make([]string, prop.ColumnSize))
	}
	writeRow(separator)
	for _, row := range body {
		writeRow(row)
	}
	sb.WriteString("\n")
	return sb.String()
}

// renderHTMLTable emits colgroup, optional thead, and tbody. Origin cells
// carry rowspan/colspan attributes; cells covered by a preceding merge are
// omitted from the row markup entirely. Cell content keeps its block
// structure and goes through the Markdown-to-HTML bridge.
func (r *Renderer) renderHTMLTable(table *blocks.TableBlock, cells []string, ctx renderContext) string {
	prop := table.Property
	covered := coveredCells(prop)

	spanAt := func(row, col int) blocks.MergeInfo {
		idx := row*prop.ColumnSize + col
		if idx < len(prop.MergeInfo) {
			return prop.MergeInfo[idx]
		}
		return blocks.MergeInfo{}
	}

	cellTag := func(row, col int) string {
		if (row == 0 && prop.HeaderRow) || (col == 0 && prop.HeaderColumn) {
			return "th"
		}
		return "td"
	}

	writeRowCells := func(sb *strings.Builder, row int) {
		for col := 0; col < prop.ColumnSize; col++ {
			idx := row*prop.ColumnSize + col
			if covered[idx] {
				continue
			}
			tag := cellTag(row, col)
			var attrs string
			if mi := spanAt(row, col); mi.RowSpan > 1 || mi.ColSpan > 1 {
				if mi.RowSpan > 1 {
					attrs += fmt.Sprintf(" rowspan=%q", fmt.Sprint(mi.RowSpan))
				}
				if mi.ColSpan > 1 {
					attrs += fmt.Sprintf(" colspan=%q", fmt.Sprint(mi.ColSpan))
				}
			}
			var content string
			if idx < len(cells) {
				content = markdownToHTML(r.cellMarkdown(cells[idx], ctx))
			}
			fmt.Fprintf(sb, "<%s%s>%s</%s>\n", tag, attrs, content, tag)
		}
	}

	var sb strings.Builder
	sb.WriteString("<table>\n<colgroup>\n")
	for col := 0; col < prop.ColumnSize; col++ {
		if col < len(prop.ColumnWidth) && prop.ColumnWidth[col] > 0 {
			fmt.Fprintf(&sb, "<col width=%q/>\n", fmt.Sprint(prop.ColumnWidth[col]))
		} else {
			sb.WriteString("<col/>\n")
		}
	}
	sb.WriteString("</colgroup>\n")

	startRow := 0
	if prop.HeaderRow && prop.RowSize > 0 {
		sb.WriteString("<thead>\n<tr>\n")
		writeRowCells(&sb, 0)
		sb.WriteString("</tr>\n</thead>\n")
		startRow = 1
	}

	sb.WriteString("<tbody>\n")
	for row := startRow; row < prop.RowSize; row++ {
		sb.WriteString("<tr>\n")
		writeRowCells(&sb, row)
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</tbody>\n</table>\n\n")
	return sb.String()
}

// coveredCells marks the row-major indices shadowed by a merge origin. The
// origin itself stays uncovered.
func coveredCells(prop blocks.TableProperty) map[int]bool {
	covered := make(map[int]bool)
	for idx, mi := range prop.MergeInfo {
		if mi.RowSpan <= 1 && mi.ColSpan <= 1 {
			continue
		}
		row := idx / prop.ColumnSize
		col := idx % prop.ColumnSize
		rspan, cspan := mi.RowSpan, mi.ColSpan
		if rspan < 1 {
			rspan = 1
		}
		if cspan < 1 {
			cspan = 1
		}
		for dr := 0; dr < rspan; dr++ {
			for dc := 0; dc < cspan; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				rr, cc := row+dr, col+dc
				if rr < prop.RowSize && cc < prop.ColumnSize {
					covered[rr*prop.ColumnSize+cc] = true
				}
			}
		}
	}
	return covered
}
