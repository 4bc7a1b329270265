// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pdiddy/docexport/pkg/blocks"
)

// doc builds a block list rooted at a page whose children are the given
// blocks in order. Parent/child linkage is filled in for top-level blocks;
// deeper nesting is set up by the callers.
func doc(children ...*blocks.Block) []*blocks.Block {
	root := &blocks.Block{
		ID:   "root",
		Type: blocks.TypePage,
		Page: &blocks.TextBlock{},
	}
	all := []*blocks.Block{root}
	for _, c := range children {
		if c.ParentID == "" {
			c.ParentID = "root"
			root.Children = append(root.Children, c.ID)
		}
		all = append(all, c)
	}
	return all
}

func textPayload(content string) *blocks.TextBlock {
	return &blocks.TextBlock{
		Elements: []blocks.TextElement{
			{TextRun: &blocks.TextRun{Content: content}},
		},
	}
}

func mustRender(t *testing.T, blks []*blocks.Block, opts Options) string {
	t.Helper()
	out, _, err := Document(blks, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out
}

func TestDocument_MissingRoot(t *testing.T) {
	blks := []*blocks.Block{
		{ID: "a", Type: blocks.TypeText, Text: textPayload("orphan")},
	}
	if _, _, err := Document(blks, Options{}); err == nil {
		t.Fatal("expected error for document without a page block")
	}
}

func TestDocument_MissingChildSkipped(t *testing.T) {
	root := &blocks.Block{
		ID:       "root",
		Type:     blocks.TypePage,
		Page:     &blocks.TextBlock{},
		Children: []string{"gone", "p1"},
	}
	p1 := &blocks.Block{ID: "p1", ParentID: "root", Type: blocks.TypeText, Text: textPayload("still here")}

	out := mustRender(t, []*blocks.Block{root, p1}, Options{})
	if out != "still here\n" {
		t.Errorf("output = %q, want %q", out, "still here\n")
	}
}

func TestHeadings_HashCountMatchesLevel(t *testing.T) {
	for level := 1; level <= 9; level++ {
		b := &blocks.Block{ID: fmt.Sprintf("h%d", level), Type: blocks.BlockType(int(blocks.TypeHeading1) + level - 1)}
		payload := textPayload(fmt.Sprintf("Heading %d", level))
		switch level {
		case 1:
			b.Heading1 = payload
		case 2:
			b.Heading2 = payload
		case 3:
			b.Heading3 = payload
		case 4:
			b.Heading4 = payload
		case 5:
			b.Heading5 = payload
		case 6:
			b.Heading6 = payload
		case 7:
			b.Heading7 = payload
		case 8:
			b.Heading8 = payload
		case 9:
			b.Heading9 = payload
		}

		out := mustRender(t, doc(b), Options{})
		want := strings.Repeat("#", level) + " " + fmt.Sprintf("Heading %d", level) + "\n"
		if out != want {
			t.Errorf("level %d: output = %q, want %q", level, out, want)
		}
	}
}

func TestHeadings_Clamped(t *testing.T) {
	b := &blocks.Block{ID: "h8", Type: blocks.TypeHeading8, Heading8: textPayload("Deep")}
	out := mustRender(t, doc(b), Options{ClampHeadings: true})
	if out != "###### Deep\n" {
		t.Errorf("output = %q, want clamped level 6 heading", out)
	}
}

func TestOrderedList_OrdinalsRestartAfterInterruption(t *testing.T) {
	o1 := &blocks.Block{ID: "o1", Type: blocks.TypeOrdered, Ordered: textPayload("first")}
	o2 := &blocks.Block{ID: "o2", Type: blocks.TypeOrdered, Ordered: textPayload("second")}
	o3 := &blocks.Block{ID: "o3", Type: blocks.TypeOrdered, Ordered: textPayload("third")}
	p := &blocks.Block{ID: "p", Type: blocks.TypeText, Text: textPayload("break")}
	o4 := &blocks.Block{ID: "o4", Type: blocks.TypeOrdered, Ordered: textPayload("restarted")}

	out := mustRender(t, doc(o1, o2, o3, p, o4), Options{})

	for _, want := range []string{"1. first", "2. second", "3. third", "1. restarted"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "4. restarted") {
		t.Errorf("numbering did not restart after interruption:\n%s", out)
	}
}

func TestBulletList_CompactionBetweenSiblings(t *testing.T) {
	b1 := &blocks.Block{ID: "b1", Type: blocks.TypeBullet, Bullet: textPayload("one")}
	b2 := &blocks.Block{ID: "b2", Type: blocks.TypeBullet, Bullet: textPayload("two")}

	out := mustRender(t, doc(b1, b2), Options{})
	if out != "- one\n- two\n" {
		t.Errorf("sibling bullets should be compact, got %q", out)
	}
}

func TestBulletList_ItemWithChildrenKeepsBlankLine(t *testing.T) {
	child := &blocks.Block{ID: "c", ParentID: "b1", Type: blocks.TypeBullet, Bullet: textPayload("nested")}
	b1 := &blocks.Block{ID: "b1", Type: blocks.TypeBullet, Bullet: textPayload("parent"), Children: []string{"c"}}
	b2 := &blocks.Block{ID: "b2", Type: blocks.TypeBullet, Bullet: textPayload("after")}

	blks := doc(b1, b2)
	child.ParentID = "b1"
	blks = append(blks, child)

	out := mustRender(t, blks, Options{})

	if !strings.Contains(out, "- parent\n\n") {
		t.Errorf("item with children should keep its trailing blank line:\n%q", out)
	}
	if !strings.Contains(out, listIndent+"- nested") {
		t.Errorf("nested child should be indented one level:\n%q", out)
	}
}

func TestTodo_DoneFlag(t *testing.T) {
	done := &blocks.Block{ID: "t1", Type: blocks.TypeTodo, Todo: &blocks.TextBlock{
		Elements: []blocks.TextElement{{TextRun: &blocks.TextRun{Content: "shipped"}}},
		Style:    &blocks.TextStyle{Done: true},
	}}
	open := &blocks.Block{ID: "t2", Type: blocks.TypeTodo, Todo: textPayload("pending")}

	out := mustRender(t, doc(done, open), Options{})
	if !strings.Contains(out, "- [x] shipped") {
		t.Errorf("done todo not rendered: %q", out)
	}
	if !strings.Contains(out, "- [ ] pending") {
		t.Errorf("open todo not rendered: %q", out)
	}
}

func TestQuoteContainer_NestedPrefixes(t *testing.T) {
	inner := &blocks.Block{ID: "inner", ParentID: "qc", Type: blocks.TypeText, Text: textPayload("quoted twice")}
	qcInner := &blocks.Block{ID: "qci", ParentID: "qc", Type: blocks.TypeQuoteContainer,
		QuoteContainer: &blocks.QuoteContainer{}, Children: []string{"inner"}}
	inner.ParentID = "qci"
	qc := &blocks.Block{ID: "qc", Type: blocks.TypeQuoteContainer,
		QuoteContainer: &blocks.QuoteContainer{}, Children: []string{"qci"}}

	blks := doc(qc)
	blks = append(blks, qcInner, inner)

	out := mustRender(t, blks, Options{})
	if !strings.Contains(out, "> > quoted twice") {
		t.Errorf("nested quote containers should accumulate prefixes:\n%q", out)
	}
}

func TestCode_FenceAndLanguage(t *testing.T) {
	code := &blocks.Block{ID: "c", Type: blocks.TypeCode, Code: &blocks.TextBlock{
		Elements: []blocks.TextElement{{TextRun: &blocks.TextRun{Content: "if x < 10 { return }"}}},
		Style:    &blocks.TextStyle{Language: 22},
	}}

	out := mustRender(t, doc(code), Options{})
	if !strings.Contains(out, "```go\n") {
		t.Errorf("code fence missing language tag: %q", out)
	}
	if !strings.Contains(out, "if x < 10 { return }") {
		t.Errorf("code content should be verbatim, no escaping: %q", out)
	}
}

func TestDivider(t *testing.T) {
	d := &blocks.Block{ID: "d", Type: blocks.TypeDivider, Divider: &blocks.DividerBlock{}}
	out := mustRender(t, doc(d), Options{})
	if out != "---\n" {
		t.Errorf("divider output = %q", out)
	}
}

func TestViewAndSynced_TransparentPassthrough(t *testing.T) {
	inner := &blocks.Block{ID: "p1", ParentID: "v", Type: blocks.TypeText, Text: textPayload("through the view")}
	view := &blocks.Block{ID: "v", Type: blocks.TypeView, View: &blocks.ViewBlock{}, Children: []string{"p1"}}

	blks := doc(view)
	blks = append(blks, inner)

	out := mustRender(t, blks, Options{})
	if out != "through the view\n" {
		t.Errorf("view should add no markup, got %q", out)
	}
}

func TestUnsupported_HiddenByDefault(t *testing.T) {
	mystery := &blocks.Block{ID: "m", Type: blocks.BlockType(999)}
	out := mustRender(t, doc(mystery), Options{})
	if out != "\n" && out != "" {
		t.Errorf("unsupported block should emit nothing, got %q", out)
	}
}

func TestUnsupported_ShownWithFlag(t *testing.T) {
	mystery := &blocks.Block{ID: "m", Type: blocks.BlockType(999)}
	out := mustRender(t, doc(mystery), Options{ShowUnsupported: true})
	if !strings.Contains(out, "```json") || !strings.Contains(out, `"m"`) {
		t.Errorf("unsupported dump missing: %q", out)
	}
}

func TestMediaBlocks_TokensCollectedInOrder(t *testing.T) {
	img := &blocks.Block{ID: "i", Type: blocks.TypeImage, Image: &blocks.ImageBlock{Token: "imgtok", Width: 640, Height: 480}}
	file := &blocks.Block{ID: "f", Type: blocks.TypeFile, File: &blocks.FileBlock{Token: "filetok", Name: "report.pdf"}}
	board := &blocks.Block{ID: "w", Type: blocks.TypeBoard, Board: &blocks.BoardBlock{Token: "boardtok"}}

	out, tokens, err := Document(doc(img, file, board), Options{})
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, `<img src="imgtok" width="640" height="480"/>`) {
		t.Errorf("image tag missing attributes: %q", out)
	}
	if !strings.Contains(out, "[report.pdf](filetok)") {
		t.Errorf("file link missing: %q", out)
	}

	want := []MediaToken{
		{Token: "imgtok", Kind: KindImage},
		{Token: "filetok", Kind: KindFile},
		{Token: "boardtok", Kind: KindBoard},
	}
	if len(tokens) != len(want) {
		t.Fatalf("collected %d tokens, want %d", len(tokens), len(want))
	}
	for i, tok := range tokens {
		if tok != want[i] {
			t.Errorf("token[%d] = %+v, want %+v", i, tok, want[i])
		}
	}
}

func TestIframe_URLDecoded(t *testing.T) {
	iframe := &blocks.Block{ID: "if", Type: blocks.TypeIframe, Iframe: &blocks.IframeBlock{
		Component: blocks.IframeComponent{URL: "https%3A%2F%2Fexample.com%2Fembed"},
	}}
	out := mustRender(t, doc(iframe), Options{})
	if !strings.Contains(out, `<iframe src="https://example.com/embed"></iframe>`) {
		t.Errorf("iframe URL not decoded: %q", out)
	}
}

func TestDocument_Deterministic(t *testing.T) {
	b1 := &blocks.Block{ID: "b1", Type: blocks.TypeBullet, Bullet: textPayload("one")}
	b2 := &blocks.Block{ID: "b2", Type: blocks.TypeOrdered, Ordered: textPayload("two")}
	blks := doc(b1, b2)

	first := mustRender(t, blks, Options{})
	for i := 0; i < 5; i++ {
		if got := mustRender(t, blks, Options{}); got != first {
			t.Fatalf("render %d differs from first render", i)
		}
	}
}
