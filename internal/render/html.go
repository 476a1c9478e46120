package render

import (
	"bytes"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/mkd/internal/block"
	"git.home.luguber.info/inful/mkd/internal/callbacks"
	"git.home.luguber.info/inful/mkd/internal/flags"
	"git.home.luguber.info/inful/mkd/internal/span"
	"git.home.luguber.info/inful/mkd/internal/walk"
)

// HTML renders the document body followed by the referenced footnotes.
// With CDATA the result is xml-escaped.
func (r *Renderer) HTML() []byte {
	var b bytes.Buffer
	r.noteIDs = make(map[int]bool)
	r.blocks(&b, r.root)
	r.footnotes(&b)
	if r.opts.Flags.IsSet(flags.CData) {
		return XML(b.Bytes())
	}
	return b.Bytes()
}

func (r *Renderer) blocks(b *bytes.Buffer, root *block.Node) {
	if root == nil {
		return
	}
	var path []*block.Node
	walk.Walk(root, block.Kids, func(n *block.Node, entering bool) walk.Result {
		if entering {
			path = append(path, n)
			return r.enter(b, n, path)
		}
		path = path[:len(path)-1]
		r.exit(b, n)
		return walk.Continue
	})
}

// enter writes the opening markup of n. path holds n and its ancestors.
func (r *Renderer) enter(b *bytes.Buffer, n *block.Node, path []*block.Node) walk.Result {
	switch n.Kind {
	case block.Paragraph:
		if parent := ancestor(path, 1); bare(parent, ancestor(path, 2)) {
			r.inline(b, r.spans[n])
			if parent.Last() != n {
				b.WriteByte('\n')
			}
			return walk.Skip
		}
		b.WriteString("<p>")
		r.inline(b, r.spans[n])
		b.WriteString("</p>\n")
		return walk.Skip
	case block.Header:
		r.header(b, n)
		return walk.Skip
	case block.List:
		b.WriteString(listOpen(n))
	case block.ListItem:
		switch n.Check {
		case block.Unchecked:
			b.WriteString(`<li class="github_checkbox"><input disabled="" type="checkbox"/>`)
		case block.Checked:
			b.WriteString(`<li class="github_checkbox"><input disabled="" type="checkbox" checked="checked"/>`)
		default:
			b.WriteString("<li>")
		}
	case block.Blockquote:
		b.WriteString("<blockquote>\n")
	case block.ClassBlock:
		if n.ID != "" {
			b.WriteString(`<div id="`)
			escape(b, n.ID)
		} else {
			b.WriteString(`<div class="`)
			escape(b, n.Class)
		}
		b.WriteString("\">\n")
	case block.CodeBlock:
		r.code(b, n)
		return walk.Skip
	case block.Table:
		r.table(b, n)
		return walk.Skip
	case block.DefList:
		b.WriteString("<dl>\n")
	case block.DefTerm:
		b.WriteString("<dt>")
		r.inline(b, r.spans[n])
		b.WriteString("</dt>\n")
		return walk.Skip
	case block.DefDescription:
		b.WriteString("<dd>")
	case block.HRule:
		b.WriteString("<hr />\n")
	case block.HTMLBlock, block.StyleBlock:
		b.WriteString(n.Text())
		b.WriteByte('\n')
		return walk.Skip
	case block.RefDef:
		return walk.Skip
	case block.FootnoteDef:
		if len(path) > 1 {
			return walk.Skip
		}
	}
	return walk.Continue
}

func (r *Renderer) exit(b *bytes.Buffer, n *block.Node) {
	switch n.Kind {
	case block.List:
		if n.ListType.Ordered() {
			b.WriteString("</ol>\n")
		} else {
			b.WriteString("</ul>\n")
		}
	case block.ListItem:
		trimNewline(b)
		b.WriteString("</li>\n")
	case block.Blockquote:
		b.WriteString("</blockquote>\n")
	case block.ClassBlock:
		b.WriteString("</div>\n")
	case block.DefList:
		b.WriteString("</dl>\n")
	case block.DefDescription:
		trimNewline(b)
		b.WriteString("</dd>\n")
	}
}

func ancestor(path []*block.Node, up int) *block.Node {
	if i := len(path) - 1 - up; i >= 0 {
		return path[i]
	}
	return nil
}

// bare reports whether a paragraph under parent renders without <p>:
// inside the items of tight lists and as the only child of a definition.
func bare(parent, grand *block.Node) bool {
	if parent == nil {
		return false
	}
	switch parent.Kind {
	case block.ListItem:
		return grand != nil && !grand.Loose
	case block.DefDescription:
		return len(parent.Children) == 1
	}
	return false
}

func trimNewline(b *bytes.Buffer) {
	if n := b.Len(); n > 0 && b.Bytes()[n-1] == '\n' {
		b.Truncate(n - 1)
	}
}

func listOpen(n *block.Node) string {
	switch n.ListType {
	case block.Bullet:
		return "<ul>\n"
	case block.AlphaLower:
		return "<ol type=\"a\">\n"
	case block.AlphaUpper:
		return "<ol type=\"A\">\n"
	}
	if n.Start != 1 {
		return fmt.Sprintf("<ol start=\"%d\">\n", n.Start)
	}
	return "<ol>\n"
}

func (r *Renderer) header(b *bytes.Buffer, n *block.Node) {
	spans := r.spans[n]
	if r.opts.Flags.IsSet(flags.TOC) {
		id := r.anchor(spans)
		if r.opts.Flags.IsSet(flags.IDAnchor) {
			fmt.Fprintf(b, "<h%d id=\"", n.Level)
			escape(b, id)
			b.WriteString("\">")
		} else {
			b.WriteString("<a name=\"")
			escape(b, id)
			fmt.Fprintf(b, "\"></a>\n<h%d>", n.Level)
		}
	} else {
		fmt.Fprintf(b, "<h%d>", n.Level)
	}
	r.inline(b, spans)
	fmt.Fprintf(b, "</h%d>\n", n.Level)
}

// anchor derives the id of a header: the slug of its text, or the anchor
// hook's result when IDANCHOR is set.
func (r *Renderer) anchor(spans []*span.Span) string {
	text := strings.TrimSpace(span.PlainText(spans))
	id := Slug(text, r.opts.Flags)
	if r.opts.Flags.IsSet(flags.IDAnchor) {
		r.opts.Hooks.Apply(callbacks.Anchor, callbacks.Call{Text: text}, func(v string) { id = v })
	}
	return id
}

func (r *Renderer) code(b *bytes.Buffer, n *block.Node) {
	if n.Lang != "" {
		b.WriteString(`<pre><code class="`)
		escape(b, n.Lang)
		b.WriteString(`">`)
	} else {
		b.WriteString("<pre><code>")
	}
	text := n.Text()
	if len(n.Lines) > 0 {
		text += "\n"
	}
	call := callbacks.Call{Text: text, Lang: n.Lang}
	if !r.opts.Hooks.Apply(callbacks.Code, call, func(v string) { b.WriteString(v) }) {
		escape(b, text)
	}
	b.WriteString("</code></pre>\n")
}

var alignStyle = map[block.Align]string{
	block.AlignLeft:   ` style="text-align:left;"`,
	block.AlignCenter: ` style="text-align:center;"`,
	block.AlignRight:  ` style="text-align:right;"`,
}

func (r *Renderer) table(b *bytes.Buffer, n *block.Node) {
	b.WriteString("<table>\n")
	inHead := false
	for i, row := range n.Children {
		switch {
		case i == 0 && row.Header:
			b.WriteString("<thead>\n")
			inHead = true
		case inHead && !row.Header:
			b.WriteString("</thead>\n<tbody>\n")
			inHead = false
		case i == 0:
			b.WriteString("<tbody>\n")
		}
		tag := "td"
		if row.Header {
			tag = "th"
		}
		b.WriteString("<tr>\n")
		for _, cell := range row.Children {
			b.WriteString("<" + tag)
			if len(cell.Align) > 0 {
				b.WriteString(alignStyle[cell.Align[0]])
			}
			b.WriteByte('>')
			r.inline(b, r.spans[cell])
			b.WriteString("</" + tag + ">\n")
		}
		b.WriteString("</tr>\n")
	}
	switch {
	case inHead:
		b.WriteString("</thead>\n")
	case len(n.Children) > 0:
		b.WriteString("</tbody>\n")
	}
	b.WriteString("</table>\n")
}

// footnotes renders the referenced footnotes in ordinal order with a back
// link appended to the last paragraph.
func (r *Renderer) footnotes(b *bytes.Buffer) {
	notes := r.notes.Referenced()
	if len(notes) == 0 {
		return
	}
	p := r.opts.refPrefix()
	b.WriteString("<div class=\"footnotes\">\n<hr/>\n<ol>\n")
	for _, note := range notes {
		fmt.Fprintf(b, "<li id=\"%s:%d\">\n", p, note.Ordinal)
		var body bytes.Buffer
		r.blocks(&body, note.Content)
		back := fmt.Sprintf(`<a href="#%sref:%d" rev="footnote">&#8617;</a>`, p, note.Ordinal)
		out := body.Bytes()
		if bytes.HasSuffix(out, []byte("</p>\n")) {
			b.Write(out[:len(out)-len("</p>\n")])
			b.WriteString(" " + back + "</p>\n")
		} else {
			b.Write(out)
			b.WriteString("<p>" + back + "</p>\n")
		}
		b.WriteString("</li>\n")
	}
	b.WriteString("</ol>\n</div>\n")
}
