package refs

import (
	"log/slog"

	"git.home.luguber.info/inful/mkd/internal/block"
	"git.home.luguber.info/inful/mkd/internal/flags"
	"git.home.luguber.info/inful/mkd/internal/logfields"
	"git.home.luguber.info/inful/mkd/internal/walk"
)

// Result holds everything the collector extracted.
type Result struct {
	Links     *Table
	Footnotes *Footnotes
	// Styles holds the text of every extracted style block in document
	// order, including the enclosing tags.
	Styles []string
}

// Collect extracts definitions from root and removes their nodes from the
// renderable tree. Style blocks are extracted unless NOSTYLE is set, in
// which case they stay in the tree as raw markup.
func Collect(root *block.Node, f *flags.Set) *Result {
	res := &Result{Links: NewTable(), Footnotes: NewFootnotes()}
	extractStyles := !f.IsSet(flags.NoStyle)

	walk.Each(root, block.Kids, func(n *block.Node) {
		switch n.Kind {
		case block.RefDef:
			added := res.Links.Add(&Link{
				Label:    n.Label,
				URL:      n.URL,
				Title:    n.Title,
				HasTitle: n.HasTitle,
				Width:    n.Width,
				Height:   n.Height,
			})
			if !added {
				slog.Debug("Duplicate reference definition ignored", logfields.Label(n.Label))
			}
		case block.FootnoteDef:
			if !res.Footnotes.Add(&Footnote{Label: n.Label, Content: n}) {
				slog.Debug("Duplicate footnote definition ignored", logfields.Label(n.Label))
			}
		case block.StyleBlock:
			if extractStyles {
				res.Styles = append(res.Styles, n.Text())
			}
		}
	})

	keep := func(n *block.Node) bool {
		switch n.Kind {
		case block.RefDef, block.FootnoteDef:
			return false
		case block.StyleBlock:
			return !extractStyles
		}
		return true
	}
	walk.Filter(root, block.Kids, block.SetKids, keep)
	for _, fn := range res.Footnotes.byLabel {
		walk.Filter(fn.Content, block.Kids, block.SetKids, keep)
	}
	return res
}
