// Package render turns a compiled block tree and its span index into HTML,
// a table of contents, an XHTML page, XML-escaped text, collected CSS and a
// debug dump. Rendering only reads the tree and can be repeated.
package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/mkd/internal/block"
	"git.home.luguber.info/inful/mkd/internal/callbacks"
	"git.home.luguber.info/inful/mkd/internal/flags"
	"git.home.luguber.info/inful/mkd/internal/refs"
	"git.home.luguber.info/inful/mkd/internal/span"
)

// DefaultRefPrefix prefixes footnote ids.
const DefaultRefPrefix = "fn"

// Options configures output.
type Options struct {
	Flags *flags.Set
	// Base is prefixed to link and image urls that start with "/".
	Base string
	// RefPrefix prefixes footnote ids. Empty means DefaultRefPrefix.
	RefPrefix string
	Hooks     *callbacks.Registry
}

func (o Options) refPrefix() string {
	if o.RefPrefix == "" {
		return DefaultRefPrefix
	}
	return o.RefPrefix
}

// Renderer renders one compiled document.
type Renderer struct {
	root  *block.Node
	spans span.Index
	notes *refs.Footnotes
	opts  Options
	// noteIDs holds the footnotes whose first reference already carried
	// the back-link id during the current render.
	noteIDs map[int]bool
}

// New returns a renderer over a compiled tree. notes may be nil.
func New(root *block.Node, spans span.Index, notes *refs.Footnotes, opts Options) *Renderer {
	return &Renderer{root: root, spans: spans, notes: notes, opts: opts}
}

func escape(b *bytes.Buffer, s string) {
	b.Write(util.EscapeHTML([]byte(s)))
}

// url writes an attribute-safe url, applying the base and the url hook.
func (r *Renderer) url(b *bytes.Buffer, raw string) {
	u := raw
	if r.opts.Base != "" && strings.HasPrefix(u, "/") {
		u = strings.TrimSuffix(r.opts.Base, "/") + u
	}
	if r.opts.Hooks.Apply(callbacks.URL, callbacks.Call{Text: u}, func(v string) { escape(b, v) }) {
		return
	}
	b.Write(util.EscapeHTML(util.URLEscape([]byte(u), false)))
}

// linkAttrs writes the extra attributes of an <a> produced by the link
// attribute hook.
func (r *Renderer) linkAttrs(b *bytes.Buffer, url string) {
	r.opts.Hooks.Apply(callbacks.LinkAttr, callbacks.Call{Text: url}, func(v string) {
		if v = strings.TrimSpace(v); v != "" {
			b.WriteByte(' ')
			b.WriteString(v)
		}
	})
}

// XML escapes the five xml special characters.
func XML(text []byte) []byte {
	var b bytes.Buffer
	b.Grow(len(text))
	for _, c := range text {
		switch c {
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '&':
			b.WriteString("&amp;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&apos;")
		default:
			b.WriteByte(c)
		}
	}
	return b.Bytes()
}

// CSS concatenates extracted style blocks.
func CSS(styles []string) []byte {
	var b bytes.Buffer
	for _, s := range styles {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	return b.Bytes()
}
