// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pdiddy/docexport/pkg/blocks"
)

// tableDoc builds a rows x cols table with one paragraph per cell, plus the
// surrounding page. Cell (r,c) contains the text "r{r}c{c}".
func tableDoc(prop blocks.TableProperty) []*blocks.Block {
	table := &blocks.Block{
		ID:   "tbl",
		Type: blocks.TypeTable,
		Table: &blocks.TableBlock{
			Property: prop,
		},
	}
	blks := doc(table)
	for row := 0; row < prop.RowSize; row++ {
		for col := 0; col < prop.ColumnSize; col++ {
			cellID := fmt.Sprintf("cell-%d-%d", row, col)
			textID := fmt.Sprintf("text-%d-%d", row, col)
			table.Table.Cells = append(table.Table.Cells, cellID)
			blks = append(blks,
				&blocks.Block{
					ID:        cellID,
					ParentID:  "tbl",
					Type:      blocks.TypeTableCell,
					TableCell: &blocks.TableCellBlock{},
					Children:  []string{textID},
				},
				&blocks.Block{
					ID:       textID,
					ParentID: cellID,
					Type:     blocks.TypeText,
					Text:     textPayload(fmt.Sprintf("r%dc%d", row, col)),
				},
			)
		}
	}
	return blks
}

func TestPipeTable_HeaderRow(t *testing.T) {
	out := mustRender(t, tableDoc(blocks.TableProperty{
		RowSize:    2,
		ColumnSize: 2,
		HeaderRow:  true,
	}), Options{})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	want := []string{
		"|r0c0|r0c1|",
		"|---|---|",
		"|r1c0|r1c1|",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), out)
	}
	for i, line := range lines {
		if line != want[i] {
			t.Errorf("line %d = %q, want %q", i, line, want[i])
		}
	}
	for _, line := range lines {
		if strings.Count(line, "|") != 3 {
			t.Errorf("line %q should have exactly 2 cells", line)
		}
	}
}

func TestPipeTable_NoHeaderRowGetsEmptyHeader(t *testing.T) {
	out := mustRender(t, tableDoc(blocks.TableProperty{
		RowSize:    1,
		ColumnSize: 2,
	}), Options{})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 || lines[0] != "|||" || lines[1] != "|---|---|" {
		t.Errorf("expected synthesized empty header, got:\n%s", out)
	}
}

func TestPipeTable_CellNewlinesFlattened(t *testing.T) {
	blks := tableDoc(blocks.TableProperty{RowSize: 1, ColumnSize: 1, HeaderRow: false})
	// Give cell (0,0) a second paragraph.
	for _, b := range blks {
		if b.ID == "cell-0-0" {
			b.Children = append(b.Children, "text-extra")
		}
	}
	blks = append(blks, &blocks.Block{
		ID: "text-extra", ParentID: "cell-0-0", Type: blocks.TypeText, Text: textPayload("second line"),
	})

	out := mustRender(t, blks, Options{})
	if !strings.Contains(out, "|r0c0 second line|") {
		t.Errorf("cell newlines should flatten to spaces:\n%s", out)
	}
}

func TestHTMLTable_RowSpanMergeSwitchesToHTML(t *testing.T) {
	out := mustRender(t, tableDoc(blocks.TableProperty{
		RowSize:    2,
		ColumnSize: 2,
		HeaderRow:  true,
		MergeInfo: []blocks.MergeInfo{
			{RowSpan: 2, ColSpan: 1},
			{RowSpan: 1, ColSpan: 1},
			{RowSpan: 1, ColSpan: 1},
			{RowSpan: 1, ColSpan: 1},
		},
	}), Options{})

	if !strings.Contains(out, "<table>") {
		t.Fatalf("merged table should render as HTML:\n%s", out)
	}
	if !strings.Contains(out, `rowspan="2"`) {
		t.Errorf("origin cell should carry rowspan:\n%s", out)
	}
	// The covered cell (1,0) must be omitted from the row markup entirely.
	if strings.Contains(out, "r1c0") {
		t.Errorf("covered cell content should be omitted:\n%s", out)
	}
	if !strings.Contains(out, "<thead>") {
		t.Errorf("header row should produce thead:\n%s", out)
	}
	if !strings.Contains(out, "<colgroup>") {
		t.Errorf("HTML table should declare colgroup:\n%s", out)
	}
}

func TestHTMLTable_WideColumnForcesHTML(t *testing.T) {
	out := mustRender(t, tableDoc(blocks.TableProperty{
		RowSize:     1,
		ColumnSize:  2,
		ColumnWidth: []int{80, 240},
	}), Options{})

	if !strings.Contains(out, "<table>") {
		t.Fatalf("wide column should force HTML rendering:\n%s", out)
	}
	if !strings.Contains(out, `<col width="240"/>`) {
		t.Errorf("column width should appear in colgroup:\n%s", out)
	}
}

func TestHTMLTable_CellContentConverted(t *testing.T) {
	blks := tableDoc(blocks.TableProperty{
		RowSize:     1,
		ColumnSize:  1,
		ColumnWidth: []int{500},
	})
	for _, b := range blks {
		if b.ID == "text-0-0" {
			b.Text = &blocks.TextBlock{Elements: []blocks.TextElement{
				{TextRun: &blocks.TextRun{Content: "emphatic", Style: &blocks.RunStyle{Bold: true}}},
			}}
		}
	}

	out := mustRender(t, blks, Options{})
	if !strings.Contains(out, "<strong>emphatic</strong>") {
		t.Errorf("HTML cell content should be converted from Markdown:\n%s", out)
	}
}

func TestTableIsComplex(t *testing.T) {
	tests := []struct {
		name string
		prop blocks.TableProperty
		want bool
	}{
		{"plain", blocks.TableProperty{RowSize: 1, ColumnSize: 1}, false},
		{"narrow columns", blocks.TableProperty{RowSize: 1, ColumnSize: 2, ColumnWidth: []int{100, 100}}, false},
		{"wide column", blocks.TableProperty{RowSize: 1, ColumnSize: 2, ColumnWidth: []int{100, 101}}, true},
		{"row merge", blocks.TableProperty{RowSize: 2, ColumnSize: 1, MergeInfo: []blocks.MergeInfo{{RowSpan: 2}}}, true},
		{"col merge", blocks.TableProperty{RowSize: 1, ColumnSize: 2, MergeInfo: []blocks.MergeInfo{{ColSpan: 2}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tableIsComplex(&blocks.TableBlock{Property: tt.prop})
			if got != tt.want {
				t.Errorf("tableIsComplex = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCoveredCells(t *testing.T) {
	prop := blocks.TableProperty{
		RowSize:    2,
		ColumnSize: 2,
		MergeInfo: []blocks.MergeInfo{
			{RowSpan: 2, ColSpan: 2},
			{}, {}, {},
		},
	}
	covered := coveredCells(prop)
	if covered[0] {
		t.Error("origin cell must not be covered")
	}
	for _, idx := range []int{1, 2, 3} {
		if !covered[idx] {
			t.Errorf("cell %d should be covered", idx)
		}
	}
}
