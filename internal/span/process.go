package span

import (
	"strings"

	"git.home.luguber.info/inful/mkd/internal/block"
	"git.home.luguber.info/inful/mkd/internal/flags"
	"git.home.luguber.info/inful/mkd/internal/lines"
	"git.home.luguber.info/inful/mkd/internal/refs"
	"git.home.luguber.info/inful/mkd/internal/walk"
)

// Index maps every block holding inline text to its spans.
type Index map[*block.Node][]*Span

// Processor turns block text into spans using one document's references.
type Processor struct {
	flags *flags.Set
	links *refs.Table
	notes *refs.Footnotes
}

// NewProcessor returns a processor. links and notes may be nil.
func NewProcessor(f *flags.Set, links *refs.Table, notes *refs.Footnotes) *Processor {
	return &Processor{flags: f, links: links, notes: notes}
}

// Process builds the span index for root and for the content of every
// referenced footnote, in reference order. Footnotes first referenced from
// other footnotes are processed too.
func Process(root *block.Node, res *refs.Result, f *flags.Set) Index {
	if res == nil {
		res = &refs.Result{}
	}
	p := NewProcessor(f, res.Links, res.Footnotes)
	idx := make(Index)
	p.index(root, idx)
	for i := 0; i < len(res.Footnotes.Referenced()); i++ {
		p.index(res.Footnotes.Referenced()[i].Content, idx)
	}
	return idx
}

// HasInline reports whether blocks of kind k carry inline text.
func HasInline(k block.Kind) bool {
	switch k {
	case block.Paragraph, block.Header, block.TableCell, block.DefTerm:
		return true
	}
	return false
}

func (p *Processor) index(root *block.Node, idx Index) {
	if root == nil {
		return
	}
	walk.Each(root, block.Kids, func(n *block.Node) {
		if HasInline(n.Kind) {
			idx[n] = p.Lines(n.Lines)
		}
	})
}

// Lines processes the text of one block.
func (p *Processor) Lines(ls []lines.Line) []*Span {
	text, breaks := join(ls)
	return p.finish(p.inline(text, breaks))
}

// Line processes a single line of text.
func (p *Processor) Line(text string) []*Span {
	return p.finish(p.inline(strings.Trim(text, " "), nil))
}

func (p *Processor) finish(spans []*Span) []*Span {
	root := &Span{Children: spans}
	walk.Each(root, Kids, func(s *Span) {
		s.Children = mergeText(s.Children)
	})
	if !p.flags.IsSet(flags.NoPants) {
		smarten(root)
	}
	return root.Children
}

// join concatenates block lines with newlines and records the offsets of
// the newlines that are hard breaks.
func join(ls []lines.Line) (string, map[int]bool) {
	var b strings.Builder
	var breaks map[int]bool
	for i, l := range ls {
		t := strings.TrimLeft(l.Text, " ")
		if i == len(ls)-1 {
			b.WriteString(strings.TrimRight(t, " "))
			break
		}
		if l.HardBreak {
			b.WriteString(strings.TrimRight(t, " "))
			if breaks == nil {
				breaks = make(map[int]bool)
			}
			breaks[b.Len()] = true
		} else {
			b.WriteString(t)
		}
		b.WriteByte('\n')
	}
	return b.String(), breaks
}
