package block

import (
	"strings"

	"git.home.luguber.info/inful/mkd/internal/flags"
	"git.home.luguber.info/inful/mkd/internal/lines"
)

type status int

const (
	unmatched status = iota
	matched
	consumed
)

type startResult int

const (
	noStart startResult = iota
	containerStart
	lineDone
)

// parser keeps the chain of open blocks from the document root to the
// deepest open node in stack.
type parser struct {
	flags       *flags.Set
	root        *Node
	stack       []*Node
	lastMatched *Node
	line        lines.Line
}

// Parse builds the block tree of ls in one forward pass.
func Parse(ls []lines.Line, f *flags.Set) *Node {
	Initialize()
	p := &parser{
		flags: f,
		root:  &Node{Kind: Document, open: true},
	}
	p.stack = []*Node{p.root}
	for _, l := range ls {
		p.incorporate(l)
	}
	for len(p.stack) > 1 {
		p.closeTip()
	}
	p.root.open = false
	return p.root
}

func (p *parser) tip() *Node { return p.stack[len(p.stack)-1] }

func (p *parser) incorporate(l lines.Line) {
	p.line = l
	rest := l.Text
	depth := 0
	for i := 1; i < len(p.stack); i++ {
		r, st := p.continues(p.stack[i], rest)
		if st == consumed {
			for len(p.stack) > i {
				p.closeTip()
			}
			return
		}
		if st == unmatched {
			break
		}
		rest, depth = r, i
	}
	container := p.stack[depth]
	p.lastMatched = container

	if container.Kind == DefList && pendingTerms(container) > 0 && !p.describesTerms(rest) {
		container = p.stack[depth-1]
		p.lastMatched = container
		p.closeUnmatched()
		if para := container.Last(); !isBlank(rest) && para != nil && para.Kind == Paragraph {
			para.open = true
			p.stack = append(p.stack, para)
			container, p.lastMatched = para, para
		}
	}

	if acceptsLines(container) {
		p.addLine(container, rest)
		if !isBlank(rest) {
			p.markLoose()
		}
		return
	}

	started := false
	for !isBlank(rest) {
		r, res := p.tryStarts(container, rest)
		if res == noStart {
			break
		}
		if res == lineDone {
			p.markLoose()
			return
		}
		rest, started = r, true
		container = p.tip()
		p.lastMatched = container
		if acceptsLines(container) {
			p.addLine(container, rest)
			p.markLoose()
			return
		}
	}

	if isBlank(rest) {
		p.closeUnmatched()
		if started {
			return
		}
		for _, n := range p.stack {
			if n.Kind == List {
				n.pendingBlank = true
			}
		}
		return
	}

	if p.tip() != p.lastMatched && p.tip().Kind == Paragraph {
		p.tip().Lines = append(p.tip().Lines, p.text(rest))
		p.markLoose()
		return
	}
	p.closeUnmatched()
	if p.tip().Kind != Paragraph {
		p.addChild(&Node{Kind: Paragraph})
	}
	p.tip().Lines = append(p.tip().Lines, p.text(rest))
	p.markLoose()
}

// continues checks whether the open node n continues on this line and
// strips its prefix.
func (p *parser) continues(n *Node, rest string) (string, status) {
	switch n.Kind {
	case Blockquote, ClassBlock:
		ind := indentOf(rest)
		if ind <= 3 && ind < len(rest) && rest[ind] == '>' {
			return strings.TrimPrefix(rest[ind+1:], " "), matched
		}
		return rest, unmatched
	case List, DefList:
		return rest, matched
	case ListItem, FootnoteDef, DefDescription:
		if isBlank(rest) {
			return "", matched
		}
		if indentOf(rest) >= n.contentIndent {
			return rest[n.contentIndent:], matched
		}
		return rest, unmatched
	case Paragraph:
		if isBlank(rest) {
			return rest, unmatched
		}
		return rest, matched
	case CodeBlock:
		if n.Fenced {
			if isClosingFence(n, rest) {
				return "", consumed
			}
			return rest[min(indentOf(rest), n.fenceIndent):], matched
		}
		if isBlank(rest) {
			return rest[min(len(rest), 4):], matched
		}
		if indentOf(rest) >= 4 {
			return rest[4:], matched
		}
		return rest, unmatched
	case HTMLBlock, StyleBlock:
		return rest, matched
	case Table:
		if !isBlank(rest) && strings.Contains(rest, "|") {
			return rest, matched
		}
		return rest, unmatched
	case RefDef:
		if !n.HasTitle {
			if t, ok := ParseTitle(rest); ok {
				n.Title, n.HasTitle = t, true
				return "", consumed
			}
		}
		return rest, unmatched
	}
	return rest, unmatched
}

func (p *parser) tryStarts(container *Node, rest string) (string, startResult) {
	starts := []func(*Node, string) (string, startResult){
		p.startFence,
		p.startHeader,
		p.startRule,
		p.startQuote,
		p.startListItem,
		p.startDefinition,
		p.startTable,
		p.startIndentedCode,
		p.startMarkup,
		p.startDefinitionLine,
	}
	for _, start := range starts {
		if r, res := start(container, rest); res != noStart {
			return r, res
		}
	}
	return rest, noStart
}

func acceptsLines(n *Node) bool {
	switch n.Kind {
	case CodeBlock, HTMLBlock, StyleBlock, Table:
		return n.open
	}
	return false
}

func canContain(parent *Node, kind Kind) bool {
	switch parent.Kind {
	case Document, Blockquote, ClassBlock, ListItem, FootnoteDef, DefDescription:
		switch kind {
		case ListItem, DefTerm, DefDescription, TableRow, TableCell:
			return false
		}
		return true
	case List:
		return kind == ListItem
	case DefList:
		return kind == DefTerm || kind == DefDescription
	}
	return false
}

func (p *parser) text(rest string) lines.Line {
	return lines.Line{Text: rest, Indent: indentOf(rest), HardBreak: p.line.HardBreak}
}

// addChild closes open blocks until one can hold n, then opens n below it.
func (p *parser) addChild(n *Node) *Node {
	for !canContain(p.tip(), n.Kind) {
		p.closeTip()
	}
	return p.push(n)
}

func (p *parser) push(n *Node) *Node {
	n.open = true
	p.tip().add(n)
	p.stack = append(p.stack, n)
	return n
}

func (p *parser) closeUnmatched() {
	for p.tip() != p.lastMatched && len(p.stack) > 1 {
		p.closeTip()
	}
}

func (p *parser) closeTip() {
	n := p.tip()
	p.stack = p.stack[:len(p.stack)-1]
	n.open = false
	p.finalize(n)
	if n.Kind == DefList {
		releaseTerms(n, p.tip())
	}
}

// markLoose turns every open list that saw a blank line into a loose list
// now that more content followed inside it.
func (p *parser) markLoose() {
	for _, n := range p.stack {
		if n.Kind == List && n.pendingBlank {
			n.Loose = true
			n.pendingBlank = false
		}
	}
}

func (p *parser) addLine(n *Node, rest string) {
	switch n.Kind {
	case CodeBlock:
		n.Lines = append(n.Lines, lines.Line{Text: rest, Indent: indentOf(rest)})
	case Table:
		n.Lines = append(n.Lines, p.text(rest))
	case HTMLBlock, StyleBlock:
		n.Lines = append(n.Lines, lines.Line{Text: rest, Indent: indentOf(rest)})
		if markupEnds(n, rest) {
			p.closeTip()
		}
	}
}

func (p *parser) finalize(n *Node) {
	switch n.Kind {
	case CodeBlock, HTMLBlock, StyleBlock:
		for len(n.Lines) > 0 && isBlank(n.Lines[len(n.Lines)-1].Text) {
			n.Lines = n.Lines[:len(n.Lines)-1]
		}
	case Table:
		buildTable(n)
	}
}

func indentOf(s string) int {
	i := 0
	for i < len(s) && s[i] == ' ' {
		i++
	}
	return i
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
