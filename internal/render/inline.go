package render

import (
	"bytes"
	"fmt"

	"git.home.luguber.info/inful/mkd/internal/flags"
	"git.home.luguber.info/inful/mkd/internal/span"
	"git.home.luguber.info/inful/mkd/internal/walk"
)

// Line renders spans outside of any document.
func Line(spans []*span.Span, opts Options) []byte {
	var b bytes.Buffer
	New(nil, nil, nil, opts).inline(&b, spans)
	return b.Bytes()
}

var simpleTags = map[span.Kind]string{
	span.Emphasis:      "em",
	span.Strong:        "strong",
	span.Strikethrough: "del",
	span.Superscript:   "sup",
}

func (r *Renderer) inline(b *bytes.Buffer, spans []*span.Span) {
	textOnly := r.opts.Flags.IsSet(flags.TagText)
	root := &span.Span{Children: spans}
	walk.Walk(root, span.Kids, func(s *span.Span, entering bool) walk.Result {
		if s == root {
			return walk.Continue
		}
		if tag, ok := simpleTags[s.Kind]; ok {
			if !textOnly {
				if entering {
					fmt.Fprintf(b, "<%s>", tag)
				} else {
					fmt.Fprintf(b, "</%s>", tag)
				}
			}
			return walk.Continue
		}
		if s.Kind == span.Link {
			return r.link(b, s, entering, textOnly)
		}
		if !entering {
			return walk.Continue
		}
		switch s.Kind {
		case span.Text:
			escape(b, s.Text)
		case span.Code:
			if textOnly {
				escape(b, s.Text)
				break
			}
			b.WriteString("<code>")
			escape(b, s.Text)
			b.WriteString("</code>")
		case span.Math:
			escape(b, s.Text)
		case span.Entity:
			b.WriteString(s.Text)
		case span.RawHTML:
			if !textOnly {
				b.WriteString(s.Text)
			}
		case span.LineBreak:
			if textOnly {
				b.WriteByte('\n')
			} else {
				b.WriteString("<br/>\n")
			}
		case span.Autolink:
			if textOnly {
				escape(b, s.Text)
				break
			}
			b.WriteString(`<a href="`)
			r.url(b, s.URL)
			b.WriteByte('"')
			r.linkAttrs(b, s.URL)
			b.WriteByte('>')
			escape(b, s.Text)
			b.WriteString("</a>")
		case span.Image:
			r.image(b, s, textOnly)
		case span.FootnoteRef:
			r.footnoteRef(b, s, textOnly)
		}
		return walk.Skip
	})
}

// link renders links and pseudo-protocol spans around their children.
func (r *Renderer) link(b *bytes.Buffer, s *span.Span, entering, textOnly bool) walk.Result {
	url, title, hasTitle := s.Target()
	if s.Proto == "raw" {
		if entering {
			b.WriteString(url)
		}
		return walk.Skip
	}
	if textOnly {
		return walk.Continue
	}
	if !entering {
		switch s.Proto {
		case "abbr":
			b.WriteString("</abbr>")
		case "class", "id", "lang":
			b.WriteString("</span>")
		default:
			b.WriteString("</a>")
		}
		return walk.Continue
	}
	switch s.Proto {
	case "abbr":
		b.WriteString(`<abbr title="`)
		escape(b, url)
		b.WriteString(`">`)
	case "class", "id", "lang":
		fmt.Fprintf(b, `<span %s="`, s.Proto)
		escape(b, url)
		b.WriteString(`">`)
	default:
		b.WriteString(`<a href="`)
		r.url(b, url)
		b.WriteByte('"')
		if hasTitle {
			b.WriteString(` title="`)
			escape(b, title)
			b.WriteByte('"')
		}
		r.linkAttrs(b, url)
		b.WriteByte('>')
	}
	return walk.Continue
}

func (r *Renderer) image(b *bytes.Buffer, s *span.Span, textOnly bool) {
	alt := span.PlainText(s.Children)
	if textOnly {
		escape(b, alt)
		return
	}
	url, title, hasTitle := s.Target()
	if !hasTitle && r.opts.Flags.IsSet(flags.AltAsTitle) {
		title, hasTitle = alt, true
	}
	b.WriteString(`<img src="`)
	r.url(b, url)
	b.WriteString(`" alt="`)
	escape(b, alt)
	b.WriteByte('"')
	if hasTitle {
		b.WriteString(` title="`)
		escape(b, title)
		b.WriteByte('"')
	}
	if w, h := s.Size(); w > 0 || h > 0 {
		if w > 0 {
			fmt.Fprintf(b, ` width="%d"`, w)
		}
		if h > 0 {
			fmt.Fprintf(b, ` height="%d"`, h)
		}
	}
	b.WriteString(" />")
}

func (r *Renderer) footnoteRef(b *bytes.Buffer, s *span.Span, textOnly bool) {
	if s.Note == nil {
		return
	}
	n := s.Note.Ordinal
	if textOnly {
		fmt.Fprintf(b, "%d", n)
		return
	}
	p := r.opts.refPrefix()
	if r.noteIDs == nil || r.noteIDs[n] {
		fmt.Fprintf(b, `<sup><a href="#%s:%d" rel="footnote">%d</a></sup>`, p, n, n)
		return
	}
	r.noteIDs[n] = true
	fmt.Fprintf(b, `<sup id="%sref:%d"><a href="#%s:%d" rel="footnote">%d</a></sup>`, p, n, p, n, n)
}
