package render

import (
	"bytes"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/mkd/internal/block"
	"git.home.luguber.info/inful/mkd/internal/span"
	"git.home.luguber.info/inful/mkd/internal/walk"
)

// Dump writes an indented outline of the block tree under title. Blocks
// with inline content show their spans, raw blocks their line count.
func (r *Renderer) Dump(title string) []byte {
	var b bytes.Buffer
	b.WriteString(title)
	b.WriteByte('\n')
	if r.root == nil {
		return b.Bytes()
	}
	depth := 0
	walk.Walk(r.root, block.Kids, func(n *block.Node, entering bool) walk.Result {
		if !entering {
			depth--
			return walk.Continue
		}
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(n.Kind.String())
		b.WriteString(attrs(n))
		if spans, ok := r.spans[n]; ok {
			b.WriteString(" ")
			b.WriteString(span.Dump(spans))
		} else if len(n.Lines) > 0 {
			fmt.Fprintf(&b, " [%d lines]", len(n.Lines))
		}
		b.WriteByte('\n')
		depth++
		return walk.Continue
	})
	return b.Bytes()
}

func attrs(n *block.Node) string {
	var parts []string
	switch n.Kind {
	case block.Header:
		parts = append(parts, fmt.Sprintf("level=%d", n.Level))
	case block.List:
		if n.ListType.Ordered() {
			parts = append(parts, fmt.Sprintf("ordered start=%d", n.Start))
		}
		if n.Loose {
			parts = append(parts, "loose")
		}
	case block.ListItem:
		switch n.Check {
		case block.Unchecked:
			parts = append(parts, "[ ]")
		case block.Checked:
			parts = append(parts, "[x]")
		}
	case block.ClassBlock:
		if n.ID != "" {
			parts = append(parts, "id="+n.ID)
		} else {
			parts = append(parts, "class="+n.Class)
		}
	case block.CodeBlock:
		if n.Fenced {
			parts = append(parts, "fenced")
		}
		if n.Lang != "" {
			parts = append(parts, "lang="+n.Lang)
		}
	case block.FootnoteDef:
		parts = append(parts, "label="+n.Label)
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}
