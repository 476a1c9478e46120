package render

import (
	"bytes"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/mkd/internal/block"
	"git.home.luguber.info/inful/mkd/internal/flags"
	"git.home.luguber.info/inful/mkd/internal/span"
	"git.home.luguber.info/inful/mkd/internal/walk"
)

// TOC renders the headers of the body as nested lists, one level of <ul>
// per increase in header level. It is empty when there are no headers.
func (r *Renderer) TOC() []byte {
	var headers []*block.Node
	if r.root != nil {
		walk.Each(r.root, block.Kids, func(n *block.Node) {
			if n.Kind == block.Header {
				headers = append(headers, n)
			}
		})
	}
	if len(headers) == 0 {
		return nil
	}

	var b bytes.Buffer
	var levels []int
	for _, h := range headers {
		switch {
		case len(levels) == 0:
			b.WriteString("<ul>\n")
			levels = append(levels, h.Level)
		case h.Level > levels[len(levels)-1]:
			b.WriteString("\n<ul>\n")
			levels = append(levels, h.Level)
		default:
			b.WriteString("</li>\n")
			for len(levels) > 1 && h.Level < levels[len(levels)-1] {
				levels = levels[:len(levels)-1]
				b.WriteString("</ul>\n</li>\n")
			}
			levels[len(levels)-1] = h.Level
		}
		spans := r.spans[h]
		b.WriteString(`<li><a href="#`)
		escape(&b, r.anchor(spans))
		b.WriteString(`">`)
		escape(&b, strings.TrimSpace(span.PlainText(spans)))
		b.WriteString("</a>")
	}
	b.WriteString("</li>\n")
	for len(levels) > 1 {
		levels = levels[:len(levels)-1]
		b.WriteString("</ul>\n</li>\n")
	}
	b.WriteString("</ul>\n")
	return b.Bytes()
}

// Slug turns header text into an anchor name. Letters, digits and "-_:."
// are kept and spaces become dashes. Other bytes become "." or, with
// URLENCODEDANCHOR, a %XX escape. Names that do not start with a letter
// get an "L" prefix.
func Slug(text string, f *flags.Set) string {
	var b strings.Builder
	encode := f.IsSet(flags.URLEncodedAnchor)
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '-', c == '_', c == ':', c == '.':
			b.WriteByte(c)
		case c == ' ':
			b.WriteByte('-')
		case encode:
			fmt.Fprintf(&b, "%%%02X", c)
		default:
			b.WriteByte('.')
		}
	}
	s := b.String()
	if s == "" || !(s[0] >= 'a' && s[0] <= 'z' || s[0] >= 'A' && s[0] <= 'Z') {
		s = "L" + s
	}
	return s
}
