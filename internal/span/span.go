// Package span recognizes inline constructs inside block text: code spans,
// raw markup, links and images, emphasis, autolinks, superscript,
// strikethrough, entities, math and footnote references.
package span

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/mkd/internal/refs"
)

// Kind tags a Span.
type Kind int

const (
	Text Kind = iota
	Emphasis
	Strong
	Code
	Link
	Image
	Autolink
	LineBreak
	Entity
	RawHTML
	Superscript
	Strikethrough
	Math
	FootnoteRef
)

var kindNames = [...]string{
	Text:          "text",
	Emphasis:      "em",
	Strong:        "strong",
	Code:          "code",
	Link:          "link",
	Image:         "img",
	Autolink:      "autolink",
	LineBreak:     "br",
	Entity:        "entity",
	RawHTML:       "raw",
	Superscript:   "sup",
	Strikethrough: "del",
	Math:          "math",
	FootnoteRef:   "fnref",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Span is one inline element.
type Span struct {
	Kind Kind
	// Text is the literal of Text, Code, RawHTML, Entity and Math spans and
	// the visible url of an Autolink.
	Text     string
	Children []*Span

	// Link and Image targets. Reference-style spans set Ref instead.
	URL      string
	Title    string
	HasTitle bool
	Width    int
	Height   int
	Ref      *refs.Link

	// Proto is the pseudo-protocol of a Link (abbr, class, id, lang, raw).
	Proto string

	// Note is the footnote a FootnoteRef points at.
	Note *refs.Footnote
}

// Target returns the destination of a Link or Image, resolving reference
// definitions.
func (s *Span) Target() (url, title string, hasTitle bool) {
	if s.Ref != nil {
		return s.Ref.URL, s.Ref.Title, s.Ref.HasTitle
	}
	return s.URL, s.Title, s.HasTitle
}

// Size returns the image dimensions, zero when unspecified.
func (s *Span) Size() (w, h int) {
	if s.Ref != nil && s.Width == 0 && s.Height == 0 {
		return s.Ref.Width, s.Ref.Height
	}
	return s.Width, s.Height
}

// Kids returns the child list; it is the children function for walks.
func Kids(s *Span) []*Span { return s.Children }

// PlainText returns the concatenated literal text of spans, without markup.
func PlainText(spans []*Span) string {
	var b strings.Builder
	root := &Span{Children: spans}
	stack := []*Span{root}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch s.Kind {
		case Text, Code, Math:
			if s != root {
				b.WriteString(s.Text)
			}
		case Autolink:
			b.WriteString(s.Text)
		case Entity:
			b.WriteString(decodeEntity(s.Text))
		case LineBreak:
			b.WriteByte(' ')
		}
		for i := len(s.Children) - 1; i >= 0; i-- {
			stack = append(stack, s.Children[i])
		}
	}
	return b.String()
}

// Dump writes a compact s-expression of spans, used in tests and the
// debug tree dump.
func Dump(spans []*Span) string {
	var b strings.Builder
	type frame struct {
		s     *Span
		close bool
	}
	var stack []frame
	for i := len(spans) - 1; i >= 0; i-- {
		stack = append(stack, frame{s: spans[i]})
	}
	space := false
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.close {
			b.WriteByte(')')
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
		}
		space = true
		s := f.s
		switch s.Kind {
		case Text:
			fmt.Fprintf(&b, "%q", s.Text)
		case Code, RawHTML, Entity, Math, Autolink:
			fmt.Fprintf(&b, "%s%q", s.Kind, s.Text)
		default:
			b.WriteString(s.Kind.String())
		}
		if s.Kind == Link || s.Kind == Image {
			url, _, _ := s.Target()
			if s.Proto != "" {
				url = s.Proto + ":" + url
			}
			fmt.Fprintf(&b, "<%s>", url)
		}
		if s.Kind == FootnoteRef && s.Note != nil {
			fmt.Fprintf(&b, "%d", s.Note.Ordinal)
		}
		if len(s.Children) > 0 {
			b.WriteByte('(')
			space = false
			stack = append(stack, frame{s: s, close: true})
			for i := len(s.Children) - 1; i >= 0; i-- {
				stack = append(stack, frame{s: s.Children[i]})
			}
		}
	}
	return b.String()
}
