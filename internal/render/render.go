// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render implements the tree-to-text engine: a depth-first,
// pre-order walk over the document block tree producing a Markdown/HTML
// hybrid string plus the ordered list of media tokens found along the way.
// The walk is a pure function of its input; two renders of the same block
// list produce identical output and the package keeps no state across calls.
package render

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/docexport/pkg/blocks"
)

// Options controls rendering behavior.
type Options struct {
	// ShowUnsupported emits a fenced raw dump for unrecognized block types
	// instead of dropping them. Debugging aid.
	ShowUnsupported bool

	// ClampHeadings caps heading depth at 6 Markdown hashes. By default
	// levels 7-9 pass through with 7-9 hashes, matching the source document
	// even though most parsers stop recognizing headings at 6.
	ClampHeadings bool
}

// Renderer performs one document render. It is built per call and discarded;
// independent renders may run concurrently.
type Renderer struct {
	index  map[string]*blocks.Block
	tokens []MediaToken
	opts   Options
}

// renderContext is the per-call state threaded through the walk: nesting
// depth and the lookahead sibling, which list rendering uses to decide
// whether to compact the trailing blank line.
type renderContext struct {
	depth int
	next  *blocks.Block
}

// nest returns the context for a child sequence one level deeper, with no
// lookahead carried over.
func (ctx renderContext) nest() renderContext {
	return renderContext{depth: ctx.depth + 1}
}

// listIndent is the per-level prefix for nested list content.
const listIndent = "    "

// Document renders a flat block list to Markdown and returns the collected
// media tokens in traversal order. It fails only when the list contains no
// page block to root the tree; unresolvable child IDs are skipped.
func Document(blks []*blocks.Block, opts Options) (string, []MediaToken, error) {
	r := &Renderer{
		index: make(map[string]*blocks.Block, len(blks)),
		opts:  opts,
	}
	for _, b := range blks {
		r.index[b.ID] = b
	}

	var root *blocks.Block
	for _, b := range blks {
		if b.Type == blocks.TypePage {
			root = b
			break
		}
	}
	if root == nil {
		return "", nil, fmt.Errorf("document has no page block")
	}

	out := r.renderBlock(root, renderContext{})
	out = strings.TrimSpace(out) + "\n"
	return out, r.tokens, nil
}

// renderBlock dispatches on the block's discriminant and returns its text
// fragment, trailing separation included.
func (r *Renderer) renderBlock(b *blocks.Block, ctx renderContext) string {
	switch b.Type {
	case blocks.TypePage:
		return r.renderParagraph(b, ctx)
	case blocks.TypeText:
		return r.renderParagraph(b, ctx)
	case blocks.TypeHeading1, blocks.TypeHeading2, blocks.TypeHeading3,
		blocks.TypeHeading4, blocks.TypeHeading5, blocks.TypeHeading6,
		blocks.TypeHeading7, blocks.TypeHeading8, blocks.TypeHeading9:
		return r.renderHeading(b, ctx)
	case blocks.TypeBullet, blocks.TypeOrdered, blocks.TypeTodo:
		return r.renderListItem(b, ctx)
	case blocks.TypeCode:
		return r.renderCode(b)
	case blocks.TypeQuote:
		return r.renderQuote(b)
	case blocks.TypeQuoteContainer:
		return quoteLines(strings.TrimRight(r.renderChildren(b.Children, ctx.nest()), "\n")) + "\n\n"
	case blocks.TypeDivider:
		return "---\n\n"
	case blocks.TypeCallout:
		return r.renderCallout(b, ctx)
	case blocks.TypeGrid:
		return r.renderGrid(b, ctx)
	case blocks.TypeGridColumn, blocks.TypeView, blocks.TypeSyncedBlock:
		// Transparent wrappers: children only, no markup of their own.
		return r.renderChildren(b.Children, ctx)
	case blocks.TypeTable:
		return r.renderTable(b, ctx)
	case blocks.TypeTableCell:
		return r.renderChildren(b.Children, ctx)
	case blocks.TypeImage:
		return r.renderImage(b)
	case blocks.TypeBoard:
		return r.renderBoard(b)
	case blocks.TypeFile:
		return r.renderFile(b)
	case blocks.TypeIframe:
		return r.renderIframe(b)
	}
	return r.renderUnsupported(b)
}

// renderChildren renders a child ID sequence in document order. Unknown IDs
// are skipped: upstream occasionally references blocks outside the fetched
// revision window. Each block sees its next surviving sibling as lookahead.
func (r *Renderer) renderChildren(ids []string, ctx renderContext) string {
	present := make([]*blocks.Block, 0, len(ids))
	for _, id := range ids {
		if b, ok := r.index[id]; ok {
			present = append(present, b)
		}
	}

	var c composer
	for i, b := range present {
		childCtx := renderContext{depth: ctx.depth}
		if i+1 < len(present) {
			childCtx.next = present[i+1]
		}
		c.WriteString(r.renderBlock(b, childCtx))
	}
	return c.String()
}

func (r *Renderer) renderParagraph(b *blocks.Block, ctx renderContext) string {
	var s string
	if text := b.TextPayload(); text != nil {
		if content := r.renderElements(text.Elements, false); content != "" {
			s = content + "\n\n"
		}
	}
	return s + r.renderChildren(b.Children, renderContext{depth: ctx.depth})
}

func (r *Renderer) renderHeading(b *blocks.Block, ctx renderContext) string {
	level := b.HeadingLevel()
	if r.opts.ClampHeadings && level > 6 {
		level = 6
	}
	var content string
	if text := b.TextPayload(); text != nil {
		content = r.renderElements(text.Elements, false)
	}
	s := strings.Repeat("#", level) + " " + content + "\n\n"
	return s + r.renderChildren(b.Children, renderContext{depth: ctx.depth})
}

// renderListItem renders bulleted, ordered, and todo items. Ordered items
// number themselves by scanning backward over immediately preceding ordered
// siblings, so numbering restarts at 1 after any interruption. An item whose
// lookahead sibling is the same list type under the same parent, and which
// has no nested children, drops its trailing blank line to keep the list
// visually tight.
func (r *Renderer) renderListItem(b *blocks.Block, ctx renderContext) string {
	var content string
	text := b.TextPayload()
	if text != nil {
		content = r.renderElements(text.Elements, false)
	}

	var marker string
	switch b.Type {
	case blocks.TypeOrdered:
		marker = strconv.Itoa(r.ordinal(b)) + ". "
	case blocks.TypeTodo:
		if text != nil && text.Style != nil && text.Style.Done {
			marker = "- [x] "
		} else {
			marker = "- [ ] "
		}
	default:
		marker = "- "
	}

	compact := len(b.Children) == 0 &&
		ctx.next != nil &&
		ctx.next.Type == b.Type &&
		ctx.next.ParentID == b.ParentID

	s := marker + content
	if compact {
		s += "\n"
	} else {
		s += "\n\n"
	}
	if len(b.Children) > 0 {
		s += indentLines(r.renderChildren(b.Children, ctx.nest()), listIndent)
	}
	return s
}

// ordinal computes a 1-based position by counting the consecutive run of
// ordered siblings immediately before this block in its parent's child
// sequence. The scan stops at the first non-ordered sibling.
func (r *Renderer) ordinal(b *blocks.Block) int {
	parent, ok := r.index[b.ParentID]
	if !ok {
		return 1
	}
	pos := -1
	for i, id := range parent.Children {
		if id == b.ID {
			pos = i
			break
		}
	}
	n := 1
	for i := pos - 1; i >= 0; i-- {
		sib, ok := r.index[parent.Children[i]]
		if !ok || sib.Type != blocks.TypeOrdered {
			break
		}
		n++
	}
	return n
}

func (r *Renderer) renderCode(b *blocks.Block) string {
	text := b.Code
	var lang string
	if text != nil && text.Style != nil {
		lang = codeLanguages[text.Style.Language]
	}
	var content string
	if text != nil {
		content = r.renderElements(text.Elements, true)
	}
	content = strings.TrimRight(content, "\n")
	return "```" + lang + "\n" + content + "\n```\n\n"
}

func (r *Renderer) renderQuote(b *blocks.Block) string {
	var content string
	if b.Quote != nil {
		content = r.renderElements(b.Quote.Elements, false)
	}
	return "> " + content + "\n\n"
}

func (r *Renderer) renderImage(b *blocks.Block) string {
	r.collect(b.Image.Token, KindImage)
	return imgTag(b.Image.Token, b.Image.Width, b.Image.Height, b.Image.Align) + "\n\n"
}

func (r *Renderer) renderBoard(b *blocks.Block) string {
	r.collect(b.Board.Token, KindBoard)
	return imgTag(b.Board.Token, 0, 0, b.Board.Align) + "\n\n"
}

// Image alignment IDs: 1 left, 2 center, 3 right.
func imgTag(token string, width, height, align int) string {
	var attrs []string
	attrs = append(attrs, fmt.Sprintf("src=%q", token))
	if width > 0 {
		attrs = append(attrs, fmt.Sprintf("width=%q", strconv.Itoa(width)))
	}
	if height > 0 {
		attrs = append(attrs, fmt.Sprintf("height=%q", strconv.Itoa(height)))
	}
	switch align {
	case 2:
		attrs = append(attrs, `style="display:block;margin:0 auto"`)
	case 3:
		attrs = append(attrs, `style="display:block;margin-left:auto"`)
	}
	return "<img " + strings.Join(attrs, " ") + "/>"
}

func (r *Renderer) renderFile(b *blocks.Block) string {
	r.collect(b.File.Token, KindFile)
	name := b.File.Name
	if name == "" {
		name = b.File.Token
	}
	return "[" + name + "](" + b.File.Token + ")\n\n"
}

func (r *Renderer) renderIframe(b *blocks.Block) string {
	return "<iframe src=\"" + percentDecode(b.Iframe.Component.URL) + "\"></iframe>\n\n"
}

// renderUnsupported emits nothing for unrecognized block types unless
// ShowUnsupported is set, in which case it dumps the raw block structure in
// a fenced JSON block.
func (r *Renderer) renderUnsupported(b *blocks.Block) string {
	if !r.opts.ShowUnsupported {
		return ""
	}
	raw, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		raw = []byte(fmt.Sprintf("block %s type %d", b.ID, b.Type))
	}
	return fmt.Sprintf("```json\n%s\n```\n\n", raw)
}

// codeLanguages maps the API's numeric code-language IDs to Markdown fence
// info strings. Unknown IDs produce a bare fence.
var codeLanguages = map[int]string{
	1:  "text",
	7:  "bash",
	8:  "csharp",
	9:  "cpp",
	10: "c",
	12: "css",
	15: "dart",
	18: "dockerfile",
	19: "erlang",
	22: "go",
	23: "groovy",
	24: "html",
	27: "haskell",
	28: "json",
	29: "java",
	30: "javascript",
	31: "julia",
	32: "kotlin",
	33: "latex",
	36: "lua",
	38: "makefile",
	39: "markdown",
	41: "objectivec",
	43: "php",
	44: "perl",
	46: "powershell",
	49: "python",
	50: "r",
	52: "ruby",
	53: "rust",
	55: "scss",
	56: "sql",
	57: "scala",
	60: "shell",
	61: "swift",
	63: "typescript",
	66: "xml",
	67: "yaml",
}
