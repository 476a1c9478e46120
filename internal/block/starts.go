package block

import (
	"strconv"
	"strings"

	"git.home.luguber.info/inful/mkd/internal/flags"
	"git.home.luguber.info/inful/mkd/internal/lines"
)

func (p *parser) startFence(_ *Node, rest string) (string, startResult) {
	if !p.flags.IsSet(flags.FencedCode) {
		return rest, noStart
	}
	ind := indentOf(rest)
	if ind > 3 || ind >= len(rest) {
		return rest, noStart
	}
	c := rest[ind]
	if c != '`' && c != '~' {
		return rest, noStart
	}
	n := runLen(rest[ind:], c)
	if n < 3 {
		return rest, noStart
	}
	info := strings.TrimSpace(rest[ind+n:])
	if c == '`' && strings.IndexByte(info, '`') >= 0 {
		return rest, noStart
	}
	p.closeUnmatched()
	p.addChild(&Node{
		Kind:        CodeBlock,
		Fenced:      true,
		Lang:        info,
		fenceChar:   c,
		fenceLen:    n,
		fenceIndent: ind,
	})
	return "", lineDone
}

func isClosingFence(n *Node, rest string) bool {
	ind := indentOf(rest)
	if ind > 3 || ind >= len(rest) || rest[ind] != n.fenceChar {
		return false
	}
	k := runLen(rest[ind:], n.fenceChar)
	return k >= n.fenceLen && isBlank(rest[ind+k:])
}

func (p *parser) startHeader(container *Node, rest string) (string, startResult) {
	ind := indentOf(rest)
	if ind > 3 {
		return rest, noStart
	}
	body := rest[ind:]
	if strings.HasPrefix(body, "#") {
		level := runLen(body, '#')
		if level > 6 {
			return rest, noStart
		}
		text := strings.TrimSpace(body[level:])
		if text == "" && level == len(body) {
			return rest, noStart
		}
		text = strings.TrimSpace(strings.TrimRight(text, "#"))
		p.closeUnmatched()
		p.addChild(&Node{Kind: Header, Level: level, Lines: []lines.Line{{Text: text}}})
		p.closeTip()
		return "", lineDone
	}

	if container.Kind != Paragraph || container != p.tip() {
		return rest, noStart
	}
	trimmed := strings.TrimRight(body, " ")
	if trimmed == "" || (trimmed[0] != '=' && trimmed[0] != '-') || runLen(trimmed, trimmed[0]) != len(trimmed) {
		return rest, noStart
	}
	level := 1
	if trimmed[0] == '-' {
		level = 2
	}
	para := container
	if len(para.Lines) > 1 {
		last := para.Lines[len(para.Lines)-1]
		para.Lines = para.Lines[:len(para.Lines)-1]
		p.closeTip()
		last.Text = strings.TrimSpace(last.Text)
		p.addChild(&Node{Kind: Header, Level: level, Lines: []lines.Line{last}})
	} else {
		para.Kind, para.Level = Header, level
		para.Lines[0].Text = strings.TrimSpace(para.Lines[0].Text)
		para.Lines[0].HardBreak = false
	}
	p.closeTip()
	return "", lineDone
}

func (p *parser) startRule(_ *Node, rest string) (string, startResult) {
	if !isRule(rest) {
		return rest, noStart
	}
	p.closeUnmatched()
	p.addChild(&Node{Kind: HRule})
	p.closeTip()
	return "", lineDone
}

func isRule(s string) bool {
	if indentOf(s) > 3 {
		return false
	}
	var c byte
	n := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t':
		case '*', '-', '_':
			if c != 0 && s[i] != c {
				return false
			}
			c = s[i]
			n++
		default:
			return false
		}
	}
	return n >= 3
}

func (p *parser) startQuote(_ *Node, rest string) (string, startResult) {
	ind := indentOf(rest)
	if ind > 3 || ind >= len(rest) || rest[ind] != '>' {
		return rest, noStart
	}
	rest = strings.TrimPrefix(rest[ind+1:], " ")
	p.closeUnmatched()
	if !p.flags.IsSet(flags.NoDivQuote) {
		if class, id, ok := classMarker(rest); ok {
			p.addChild(&Node{Kind: ClassBlock, Class: class, ID: id})
			return "", lineDone
		}
	}
	p.addChild(&Node{Kind: Blockquote})
	return rest, containerStart
}

// classMarker recognizes %class% and %id:name%.
func classMarker(s string) (class, id string, ok bool) {
	s = strings.TrimSpace(s)
	if len(s) < 3 || s[0] != '%' || s[len(s)-1] != '%' {
		return "", "", false
	}
	inner := s[1 : len(s)-1]
	if inner == "" || strings.ContainsAny(inner, " \t%") {
		return "", "", false
	}
	if name, found := strings.CutPrefix(inner, "id:"); found {
		if name == "" {
			return "", "", false
		}
		return "", name, true
	}
	return inner, "", true
}

type marker struct {
	typ           ListType
	start         int
	contentIndent int
	content       string
	empty         bool
	check         Check
}

func (p *parser) listMarker(rest string) (marker, bool) {
	var m marker
	ind := indentOf(rest)
	if ind > 3 || ind >= len(rest) {
		return m, false
	}
	end := ind
	switch c := rest[ind]; {
	case c == '*' || c == '+' || c == '-':
		m.typ, m.start = Bullet, 1
		end++
	case c >= '0' && c <= '9':
		j := ind
		for j < len(rest) && j-ind < 9 && rest[j] >= '0' && rest[j] <= '9' {
			j++
		}
		if j >= len(rest) || (rest[j] != '.' && rest[j] != ')') {
			return m, false
		}
		m.typ = Ordered
		m.start, _ = strconv.Atoi(rest[ind:j])
		end = j + 1
	case isLetter(c) && !p.flags.IsSet(flags.NoAlphaList):
		if ind+1 >= len(rest) || rest[ind+1] != '.' || ind+2 >= len(rest) {
			return m, false
		}
		m.typ, m.start = AlphaLower, int(c-'a')+1
		if c < 'a' {
			m.typ, m.start = AlphaUpper, int(c-'A')+1
		}
		end = ind + 2
	default:
		return m, false
	}
	if end < len(rest) && rest[end] != ' ' {
		return m, false
	}
	spaces := indentOf(rest[end:])
	after := rest[end+spaces:]
	switch {
	case after == "":
		m.empty = true
		m.contentIndent = end + 1
	case spaces > 4:
		m.contentIndent = end + 1
	default:
		m.contentIndent = end + spaces
	}
	if m.contentIndent <= len(rest) {
		m.content = rest[m.contentIndent:]
	}
	if !p.flags.IsSet(flags.NormalListItem) {
		switch {
		case strings.HasPrefix(after, "[ ]") && (len(after) == 3 || after[3] == ' '):
			m.check = Unchecked
		case (strings.HasPrefix(after, "[x]") || strings.HasPrefix(after, "[X]")) && (len(after) == 3 || after[3] == ' '):
			m.check = Checked
		}
		if m.check != NoCheck {
			m.content = strings.TrimPrefix(after[3:], " ")
		}
	}
	return m, true
}

func (p *parser) startListItem(container *Node, rest string) (string, startResult) {
	m, ok := p.listMarker(rest)
	if !ok {
		return rest, noStart
	}
	if container.Kind == Paragraph {
		if m.empty || m.typ == AlphaLower || m.typ == AlphaUpper || (m.typ == Ordered && m.start != 1) {
			return rest, noStart
		}
	}
	if p.flags.IsSet(flags.Compat1) {
		m.start = 1
	}
	p.closeUnmatched()
	if t := p.tip(); t.Kind == List && p.flags.IsSet(flags.ExplicitList) && t.ListType != m.typ {
		p.closeTip()
	}
	if p.tip().Kind != List {
		p.addChild(&Node{Kind: List, ListType: m.typ, Start: m.start})
	}
	p.push(&Node{Kind: ListItem, contentIndent: m.contentIndent, Check: m.check})
	return m.content, containerStart
}

func (p *parser) startDefinition(container *Node, rest string) (string, startResult) {
	if p.flags.IsSet(flags.DLExtra) {
		if r, res := p.startExtraDescription(container, rest); res != noStart {
			return r, res
		}
	}
	if p.flags.IsSet(flags.DLDiscount) {
		return p.startDiscountDefinition(container, rest)
	}
	return rest, noStart
}

// startExtraDescription handles `: description` lines following one or more
// term lines.
func (p *parser) startExtraDescription(container *Node, rest string) (string, startResult) {
	ind := indentOf(rest)
	if ind > 3 || ind+1 >= len(rest) || rest[ind] != ':' || (rest[ind+1] != ' ') {
		return rest, noStart
	}
	spaces := indentOf(rest[ind+1:])
	content := rest[ind+1+spaces:]
	if content == "" {
		return rest, noStart
	}
	contentIndent := ind + 1 + min(spaces, 4)

	switch {
	case container.Kind == DefList:
		p.closeUnmatched()
	case container.Kind == Paragraph && container == p.tip():
		p.closeTip()
		p.termsFromParagraph(p.tip())
	case container == p.tip() && container.Last() != nil && container.Last().Kind == Paragraph:
		p.termsFromParagraph(container)
	default:
		return rest, noStart
	}
	p.push(&Node{Kind: DefDescription, contentIndent: contentIndent})
	return rest[contentIndent:], containerStart
}

// termsFromParagraph turns the closed last child of parent, a paragraph,
// into definition terms. The terms join a directly preceding definition
// list, which is reopened.
func (p *parser) termsFromParagraph(parent *Node) {
	para := parent.Children[len(parent.Children)-1]
	parent.Children = parent.Children[:len(parent.Children)-1]
	var dl *Node
	if prev := parent.Last(); prev != nil && prev.Kind == DefList {
		dl = prev
		dl.open = true
		p.stack = append(p.stack, dl)
	} else {
		dl = p.push(&Node{Kind: DefList})
	}
	for _, l := range para.Lines {
		l.Text = strings.TrimSpace(l.Text)
		dl.add(&Node{Kind: DefTerm, Lines: []lines.Line{l}})
	}
}

// startDiscountDefinition handles `=term=` lines and opens the indented
// description that follows them. Terms stay pending until that description
// shows up; see releaseTerms.
func (p *parser) startDiscountDefinition(container *Node, rest string) (string, startResult) {
	ind := indentOf(rest)
	if container.Kind == DefList && ind >= 4 {
		if last := container.Last(); last != nil && last.Kind == DefTerm {
			p.closeUnmatched()
			p.push(&Node{Kind: DefDescription, contentIndent: 4})
			return rest[4:], containerStart
		}
	}
	if ind > 3 || container.Kind == Paragraph {
		return rest, noStart
	}
	if !isDiscountTerm(rest) {
		return rest, noStart
	}
	term := strings.TrimSpace(strings.TrimRight(rest[ind:], " "))
	term = strings.TrimSpace(term[1 : len(term)-1])
	p.closeUnmatched()
	dl := p.tip()
	if dl.Kind != DefList {
		dl = p.addChild(&Node{Kind: DefList})
	}
	src := p.text(rest)
	dl.add(&Node{Kind: DefTerm, Lines: []lines.Line{{Text: term}}, source: &src})
	return "", lineDone
}

// isDiscountTerm reports whether rest is an `=term=` line.
func isDiscountTerm(rest string) bool {
	ind := indentOf(rest)
	if ind > 3 {
		return false
	}
	body := strings.TrimRight(rest[ind:], " ")
	if len(body) < 3 || body[0] != '=' || body[len(body)-1] != '=' {
		return false
	}
	term := strings.TrimSpace(body[1 : len(body)-1])
	return term != "" && strings.Trim(term, "=") != ""
}

// describesTerms reports whether rest keeps pending `=term=` lines in a
// definition list: another term, an indented description or, with extra
// style lists on, a `: description` line.
func (p *parser) describesTerms(rest string) bool {
	if isBlank(rest) {
		return false
	}
	if indentOf(rest) >= 4 || isDiscountTerm(rest) {
		return true
	}
	if !p.flags.IsSet(flags.DLExtra) {
		return false
	}
	ind := indentOf(rest)
	return ind+2 < len(rest) && rest[ind] == ':' && rest[ind+1] == ' ' && !isBlank(rest[ind+2:])
}

// pendingTerms counts the trailing `=term=` children of dl that have no
// description yet.
func pendingTerms(dl *Node) int {
	k := 0
	for i := len(dl.Children) - 1; i >= 0; i-- {
		if c := dl.Children[i]; c.Kind != DefTerm || c.source == nil {
			break
		}
		k++
	}
	return k
}

// releaseTerms turns the pending terms of the closed list dl back into a
// paragraph placed after it in parent. A list left empty is dropped.
func releaseTerms(dl, parent *Node) {
	k := pendingTerms(dl)
	if k == 0 {
		return
	}
	para := &Node{Kind: Paragraph}
	for _, t := range dl.Children[len(dl.Children)-k:] {
		para.Lines = append(para.Lines, *t.source)
	}
	dl.Children = dl.Children[:len(dl.Children)-k]
	if len(dl.Children) == 0 && parent.Last() == dl {
		parent.Children = parent.Children[:len(parent.Children)-1]
	}
	parent.add(para)
}

func (p *parser) startTable(container *Node, rest string) (string, startResult) {
	if p.flags.IsSet(flags.NoTables) || container.Kind != Paragraph || container != p.tip() {
		return rest, noStart
	}
	head := container.Lines[len(container.Lines)-1]
	if !strings.Contains(head.Text, "|") {
		return rest, noStart
	}
	align, ok := separatorRow(rest)
	if !ok {
		return rest, noStart
	}
	head.Text = strings.TrimSpace(head.Text)
	head.HardBreak = false
	if len(container.Lines) > 1 {
		container.Lines = container.Lines[:len(container.Lines)-1]
		p.closeTip()
		p.addChild(&Node{Kind: Table, Align: align, Lines: []lines.Line{head}})
	} else {
		container.Kind = Table
		container.Align = align
		container.Lines = []lines.Line{head}
	}
	return "", lineDone
}

func (p *parser) startIndentedCode(_ *Node, rest string) (string, startResult) {
	if indentOf(rest) < 4 || p.tip().Kind == Paragraph {
		return rest, noStart
	}
	p.closeUnmatched()
	n := p.addChild(&Node{Kind: CodeBlock})
	p.addLine(n, rest[4:])
	return "", lineDone
}

func (p *parser) startMarkup(_ *Node, rest string) (string, startResult) {
	if p.flags.IsSet(flags.NoHTML) {
		return rest, noStart
	}
	ind := indentOf(rest)
	if ind > 3 || ind >= len(rest) || rest[ind] != '<' {
		return rest, noStart
	}
	body := rest[ind:]
	n := &Node{Kind: HTMLBlock}
	switch {
	case strings.HasPrefix(body, "<!--"):
		n.htmlTag = "!--"
	default:
		name := tagName(strings.TrimPrefix(body[1:], "/"))
		if name == "" || !IsBlockTag(name) {
			return rest, noStart
		}
		n.htmlTag = strings.ToLower(name)
		if n.htmlTag == "style" {
			n.Kind = StyleBlock
		}
	}
	p.closeUnmatched()
	p.addChild(n)
	p.addLine(n, rest)
	return "", lineDone
}

// markupEnds tracks tag depth across the lines of a raw block and reports
// when the outermost element has been closed.
func markupEnds(n *Node, line string) bool {
	if n.htmlTag == "!--" {
		return strings.Contains(line, "-->")
	}
	low := strings.ToLower(line)
	n.htmlDepth += countTag(low, "<"+n.htmlTag) - countTag(low, "</"+n.htmlTag)
	if len(n.Lines) == 1 {
		if isVoidTag(n.htmlTag) || strings.HasSuffix(strings.TrimSpace(low), "/>") && n.htmlDepth > 0 && !strings.Contains(low, "</") {
			return true
		}
	}
	return n.htmlDepth <= 0
}

func countTag(s, prefix string) int {
	count := 0
	for {
		i := strings.Index(s, prefix)
		if i < 0 {
			return count
		}
		s = s[i+len(prefix):]
		if s == "" || s[0] == '>' || s[0] == ' ' || s[0] == '/' || s[0] == '\t' {
			count++
		}
	}
}

func isVoidTag(name string) bool {
	switch name {
	case "hr", "br", "img", "input", "meta", "link":
		return true
	}
	return false
}

// tagName reads an element name at the start of s and checks the character
// following it.
func tagName(s string) string {
	i := 0
	for i < len(s) && (isLetter(s[i]) || (i > 0 && s[i] >= '0' && s[i] <= '9')) {
		i++
	}
	if i == 0 {
		return ""
	}
	if i < len(s) && s[i] != '>' && s[i] != ' ' && s[i] != '/' && s[i] != '\t' {
		return ""
	}
	return s[:i]
}

func (p *parser) startDefinitionLine(_ *Node, rest string) (string, startResult) {
	ind := indentOf(rest)
	if ind > 3 || ind >= len(rest) || rest[ind] != '[' {
		return rest, noStart
	}
	if p.flags.IsSet(flags.ExtraFootnote) {
		if label, content, ok := footnoteLabel(rest[ind:]); ok {
			p.closeUnmatched()
			p.addChild(&Node{Kind: FootnoteDef, Label: label, contentIndent: 4})
			return content, containerStart
		}
	}
	d, ok := ParseDefinition(rest[ind:])
	if !ok {
		return rest, noStart
	}
	p.closeUnmatched()
	p.addChild(&Node{
		Kind:     RefDef,
		Label:    d.Label,
		URL:      d.URL,
		Title:    d.Title,
		HasTitle: d.HasTitle,
		Width:    d.Width,
		Height:   d.Height,
	})
	if d.HasTitle {
		p.closeTip()
	}
	return "", lineDone
}

func runLen(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
