// Package block builds the block structure of a document: paragraphs,
// headers, lists, quotes, code, tables, definition lists, raw markup and
// definitions.
package block

import (
	"strings"

	"git.home.luguber.info/inful/mkd/internal/lines"
)

// Kind tags a Node.
type Kind int

const (
	Document Kind = iota
	Paragraph
	Header
	List
	ListItem
	Blockquote
	ClassBlock
	CodeBlock
	Table
	TableRow
	TableCell
	DefList
	DefTerm
	DefDescription
	HRule
	HTMLBlock
	StyleBlock
	RefDef
	FootnoteDef
)

var kindNames = [...]string{
	Document:       "document",
	Paragraph:      "paragraph",
	Header:         "header",
	List:           "list",
	ListItem:       "item",
	Blockquote:     "blockquote",
	ClassBlock:     "classblock",
	CodeBlock:      "code",
	Table:          "table",
	TableRow:       "row",
	TableCell:      "cell",
	DefList:        "dl",
	DefTerm:        "dt",
	DefDescription: "dd",
	HRule:          "hr",
	HTMLBlock:      "html",
	StyleBlock:     "style",
	RefDef:         "refdef",
	FootnoteDef:    "footnote",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ListType distinguishes list markers.
type ListType int

const (
	Bullet ListType = iota
	Ordered
	AlphaLower
	AlphaUpper
)

// Ordered reports whether the list renders as <ol>.
func (t ListType) Ordered() bool { return t != Bullet }

// Check is the checkbox state of a list item.
type Check int

const (
	NoCheck Check = iota
	Unchecked
	Checked
)

// Align is the alignment of a table column.
type Align int

const (
	AlignNone Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Node is one block element. Only the fields relevant to Kind are set.
type Node struct {
	Kind     Kind
	Children []*Node
	// Lines holds the raw inline text of leaf blocks.
	Lines []lines.Line

	Level int // Header

	ListType ListType // List
	Start    int      // List
	Loose    bool     // List
	Check    Check    // ListItem

	Class string // ClassBlock
	ID    string // ClassBlock

	Fenced bool   // CodeBlock
	Lang   string // CodeBlock

	Align  []Align // Table, TableCell (one entry)
	Header bool    // TableRow

	Label string // RefDef, FootnoteDef
	URL   string // RefDef
	Title string // RefDef
	// HasTitle separates an empty title from a missing one.
	HasTitle bool
	Width    int // RefDef
	Height   int // RefDef

	// parser state
	open          bool
	contentIndent int
	fenceChar     byte
	fenceLen      int
	fenceIndent   int
	htmlTag       string
	htmlDepth     int
	pendingBlank  bool
	lastBlank     bool
	// source is the `=term=` line of a term still waiting for its
	// indented description.
	source *lines.Line
}

// Text joins the raw lines with newlines.
func (n *Node) Text() string {
	return strings.Join(lines.Texts(n.Lines), "\n")
}

// Last returns the last child or nil.
func (n *Node) Last() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// Kids returns the child list. It is the children function used with the
// walk package.
func Kids(n *Node) []*Node { return n.Children }

// SetKids replaces the child list.
func SetKids(n *Node, kids []*Node) { n.Children = kids }

func (n *Node) add(c *Node) *Node {
	n.Children = append(n.Children, c)
	return c
}
