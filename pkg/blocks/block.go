// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package blocks defines the document block model delivered by the remote
// document API: a flat, ID-linked list of typed blocks. Each block carries a
// discriminant and exactly one populated payload; the JSON wire shape sends
// only the payload field matching the discriminant, so decoding fills the
// right one naturally.
package blocks

// BlockType discriminates which payload a Block carries. The numeric values
// match the wire protocol of the document service.
type BlockType int

const (
	TypeUnknown        BlockType = 0
	TypePage           BlockType = 1
	TypeText           BlockType = 2
	TypeHeading1       BlockType = 3
	TypeHeading2       BlockType = 4
	TypeHeading3       BlockType = 5
	TypeHeading4       BlockType = 6
	TypeHeading5       BlockType = 7
	TypeHeading6       BlockType = 8
	TypeHeading7       BlockType = 9
	TypeHeading8       BlockType = 10
	TypeHeading9       BlockType = 11
	TypeBullet         BlockType = 12
	TypeOrdered        BlockType = 13
	TypeCode           BlockType = 14
	TypeQuote          BlockType = 15
	TypeTodo           BlockType = 17
	TypeCallout        BlockType = 19
	TypeDivider        BlockType = 22
	TypeFile           BlockType = 23
	TypeGrid           BlockType = 24
	TypeGridColumn     BlockType = 25
	TypeIframe         BlockType = 26
	TypeImage          BlockType = 27
	TypeTable          BlockType = 31
	TypeTableCell      BlockType = 32
	TypeView           BlockType = 33
	TypeQuoteContainer BlockType = 34
	TypeSyncedBlock    BlockType = 40
	TypeBoard          BlockType = 43
)

// Block is one node of the document tree. Identity and linkage are flat:
// the tree structure is recovered through ParentID and the ordered Children
// list. Child order is load-bearing; it drives rendering order and ordered
// list numbering.
type Block struct {
	ID       string    `json:"block_id"`
	ParentID string    `json:"parent_id,omitempty"`
	Children []string  `json:"children,omitempty"`
	Type     BlockType `json:"block_type"`

	Page           *TextBlock      `json:"page,omitempty"`
	Text           *TextBlock      `json:"text,omitempty"`
	Heading1       *TextBlock      `json:"heading1,omitempty"`
	Heading2       *TextBlock      `json:"heading2,omitempty"`
	Heading3       *TextBlock      `json:"heading3,omitempty"`
	Heading4       *TextBlock      `json:"heading4,omitempty"`
	Heading5       *TextBlock      `json:"heading5,omitempty"`
	Heading6       *TextBlock      `json:"heading6,omitempty"`
	Heading7       *TextBlock      `json:"heading7,omitempty"`
	Heading8       *TextBlock      `json:"heading8,omitempty"`
	Heading9       *TextBlock      `json:"heading9,omitempty"`
	Bullet         *TextBlock      `json:"bullet,omitempty"`
	Ordered        *TextBlock      `json:"ordered,omitempty"`
	Code           *TextBlock      `json:"code,omitempty"`
	Quote          *TextBlock      `json:"quote,omitempty"`
	Todo           *TextBlock      `json:"todo,omitempty"`
	Callout        *CalloutBlock   `json:"callout,omitempty"`
	Divider        *DividerBlock   `json:"divider,omitempty"`
	File           *FileBlock      `json:"file,omitempty"`
	Grid           *GridBlock      `json:"grid,omitempty"`
	GridColumn     *GridColumn     `json:"grid_column,omitempty"`
	Iframe         *IframeBlock    `json:"iframe,omitempty"`
	Image          *ImageBlock     `json:"image,omitempty"`
	Table          *TableBlock     `json:"table,omitempty"`
	TableCell      *TableCellBlock `json:"table_cell,omitempty"`
	View           *ViewBlock      `json:"view,omitempty"`
	QuoteContainer *QuoteContainer `json:"quote_container,omitempty"`
	SyncedBlock    *SyncedBlock    `json:"synced_block,omitempty"`
	Board          *BoardBlock     `json:"board,omitempty"`
}

// TextPayload returns the inline text payload for block types that carry one
// (page, paragraph, headings, list items, code, quote, todo), or nil.
func (b *Block) TextPayload() *TextBlock {
	switch b.Type {
	case TypePage:
		return b.Page
	case TypeText:
		return b.Text
	case TypeHeading1:
		return b.Heading1
	case TypeHeading2:
		return b.Heading2
	case TypeHeading3:
		return b.Heading3
	case TypeHeading4:
		return b.Heading4
	case TypeHeading5:
		return b.Heading5
	case TypeHeading6:
		return b.Heading6
	case TypeHeading7:
		return b.Heading7
	case TypeHeading8:
		return b.Heading8
	case TypeHeading9:
		return b.Heading9
	case TypeBullet:
		return b.Bullet
	case TypeOrdered:
		return b.Ordered
	case TypeCode:
		return b.Code
	case TypeQuote:
		return b.Quote
	case TypeTodo:
		return b.Todo
	}
	return nil
}

// HeadingLevel returns 1-9 for heading blocks and 0 for everything else.
func (b *Block) HeadingLevel() int {
	if b.Type >= TypeHeading1 && b.Type <= TypeHeading9 {
		return int(b.Type-TypeHeading1) + 1
	}
	return 0
}

// TextBlock holds an ordered sequence of inline elements plus block-level
// style (done flag for todos, language for code blocks).
type TextBlock struct {
	Elements []TextElement `json:"elements"`
	Style    *TextStyle    `json:"style,omitempty"`
}

// TextStyle carries block-level text settings. Only the fields relevant to
// the block's type are meaningful.
type TextStyle struct {
	Align    int  `json:"align,omitempty"`
	Done     bool `json:"done,omitempty"`
	Folded   bool `json:"folded,omitempty"`
	Language int  `json:"language,omitempty"`
	Wrap     bool `json:"wrap,omitempty"`
}

// TextElement is one inline element: exactly one of the fields is set.
type TextElement struct {
	TextRun    *TextRun    `json:"text_run,omitempty"`
	MentionDoc *MentionDoc `json:"mention_doc,omitempty"`
	Equation   *Equation   `json:"equation,omitempty"`
	InlineFile *InlineFile `json:"file,omitempty"`
}

// TextRun is a contiguous span of text sharing one style record.
type TextRun struct {
	Content string    `json:"content"`
	Style   *RunStyle `json:"text_element_style,omitempty"`
}

// RunStyle holds the independent style flags of a text run. The renderer
// applies at most one of them, in a fixed precedence order.
type RunStyle struct {
	Bold            bool  `json:"bold,omitempty"`
	Italic          bool  `json:"italic,omitempty"`
	Strikethrough   bool  `json:"strikethrough,omitempty"`
	Underline       bool  `json:"underline,omitempty"`
	InlineCode      bool  `json:"inline_code,omitempty"`
	Link            *Link `json:"link,omitempty"`
	TextColor       int   `json:"text_color,omitempty"`
	BackgroundColor int   `json:"background_color,omitempty"`
}

// Link is a hyperlink attached to a text run. URL arrives percent-encoded.
type Link struct {
	URL string `json:"url"`
}

// MentionDoc is a cross-document mention.
type MentionDoc struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Equation is an inline TeX expression.
type Equation struct {
	Content string `json:"content"`
}

// InlineFile is a file reference embedded in a text run sequence.
type InlineFile struct {
	FileToken string `json:"file_token"`
	Name      string `json:"name,omitempty"`
}

// CalloutBlock wraps its children in a colored box. Color fields are numeric
// IDs into fixed palettes; zero means unset.
type CalloutBlock struct {
	BackgroundColor int    `json:"background_color,omitempty"`
	BorderColor     int    `json:"border_color,omitempty"`
	TextColor       int    `json:"text_color,omitempty"`
	EmojiID         string `json:"emoji_id,omitempty"`
}

// DividerBlock is a horizontal rule. It has no payload fields.
type DividerBlock struct{}

// FileBlock is a remote file attachment.
type FileBlock struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}

// GridBlock is a multi-column layout container; its children are grid
// columns.
type GridBlock struct {
	ColumnSize int `json:"column_size"`
}

// GridColumn is one column of a grid. WidthRatio is a percentage; zero means
// equal distribution.
type GridColumn struct {
	WidthRatio int `json:"width_ratio,omitempty"`
}

// IframeBlock embeds external content by URL.
type IframeBlock struct {
	Component IframeComponent `json:"component"`
}

// IframeComponent carries the iframe target. URL arrives percent-encoded.
type IframeComponent struct {
	IframeType int    `json:"iframe_type,omitempty"`
	URL        string `json:"url"`
}

// ImageBlock is a remote image.
type ImageBlock struct {
	Token  string `json:"token"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Align  int    `json:"align,omitempty"`
}

// BoardBlock is a whiteboard snapshot, delivered as an image token.
type BoardBlock struct {
	Token string `json:"token"`
	Align int    `json:"align,omitempty"`
}

// TableBlock holds the flat cell list plus layout metadata. Cells are block
// IDs in row-major order; len(Cells) == RowSize*ColumnSize.
type TableBlock struct {
	Cells    []string      `json:"cells"`
	Property TableProperty `json:"property"`
}

// TableProperty is the table layout metadata.
type TableProperty struct {
	RowSize      int         `json:"row_size"`
	ColumnSize   int         `json:"column_size"`
	ColumnWidth  []int       `json:"column_width,omitempty"`
	HeaderRow    bool        `json:"header_row,omitempty"`
	HeaderColumn bool        `json:"header_column,omitempty"`
	MergeInfo    []MergeInfo `json:"merge_info,omitempty"`
}

// MergeInfo declares the span of the origin cell at the same row-major
// index. A span greater than 1 covers the following cells in that direction,
// which are then not rendered independently.
type MergeInfo struct {
	RowSpan int `json:"row_span"`
	ColSpan int `json:"col_span"`
}

// TableCellBlock is a table cell; its content is the cell block's children.
type TableCellBlock struct{}

// ViewBlock is a presentation wrapper with no markup of its own.
type ViewBlock struct {
	ViewType int `json:"view_type,omitempty"`
}

// QuoteContainer groups children under a shared quote prefix.
type QuoteContainer struct{}

// SyncedBlock mirrors content from another document location; rendering is
// a transparent passthrough of its children.
type SyncedBlock struct{}
