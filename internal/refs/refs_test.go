package refs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mkd/internal/block"
	"git.home.luguber.info/inful/mkd/internal/flags"
	"git.home.luguber.info/inful/mkd/internal/lines"
)

func parse(text string, set *flags.Set) *block.Node {
	return block.Parse(lines.Split(text, lines.Options{Flags: set}), set)
}

func TestNormalize(t *testing.T) {
	require.Equal(t, Normalize("Foo  Bar"), Normalize(" foo\tbar "))
	require.Equal(t, Normalize("ÉCOLE"), Normalize("école"))
	require.NotEqual(t, Normalize("foo bar"), Normalize("foobar"))
}

func TestTable_FirstDefinitionWins(t *testing.T) {
	tbl := NewTable()
	require.True(t, tbl.Add(&Link{Label: "Ref", URL: "/first"}))
	require.False(t, tbl.Add(&Link{Label: "ref", URL: "/second"}))

	l, ok := tbl.Lookup("REF")
	require.True(t, ok)
	require.Equal(t, "/first", l.URL)
	require.Equal(t, 1, tbl.Len())

	_, ok = (*Table)(nil).Lookup("x")
	require.False(t, ok)
}

func TestFootnotes_OrdinalsFollowReferenceOrder(t *testing.T) {
	fns := NewFootnotes()
	fns.Add(&Footnote{Label: "a"})
	fns.Add(&Footnote{Label: "b"})
	fns.Add(&Footnote{Label: "c"})

	b, _ := fns.Reference("b")
	a, _ := fns.Reference("A")
	again, _ := fns.Reference("b")
	_, ok := fns.Reference("missing")

	require.False(t, ok)
	require.Equal(t, 1, b.Ordinal)
	require.Equal(t, 2, a.Ordinal)
	require.Same(t, b, again)
	require.Len(t, fns.Referenced(), 2)

	c, _ := fns.Lookup("c")
	require.Zero(t, c.Ordinal)
}

func TestCollect_RemovesDefinitions(t *testing.T) {
	set := flags.Of(flags.ExtraFootnote)
	root := parse("Text [x].\n\n[x]: /url \"T\"\n[X]: /dup\n\n> [y]: /nested\n\n[^n]: note\n    [z]: /in-footnote\n", set)

	res := Collect(root, set)
	require.Equal(t, 3, res.Links.Len())
	x, ok := res.Links.Lookup("x")
	require.True(t, ok)
	require.Equal(t, "/url", x.URL)
	require.Equal(t, "T", x.Title)
	_, ok = res.Links.Lookup("z")
	require.True(t, ok)

	fn, ok := res.Footnotes.Lookup("n")
	require.True(t, ok)
	require.Equal(t, block.FootnoteDef, fn.Content.Kind)
	require.Len(t, fn.Content.Children, 1)

	require.Len(t, root.Children, 2)
	require.Equal(t, block.Paragraph, root.Children[0].Kind)
	require.Equal(t, block.Blockquote, root.Children[1].Kind)
	require.Empty(t, root.Children[1].Children)
}

func TestCollect_Styles(t *testing.T) {
	src := "<style>\nh1 { color: red }\n</style>\n\npara\n"

	set := flags.New()
	root := parse(src, set)
	res := Collect(root, set)
	require.Equal(t, []string{"<style>\nh1 { color: red }\n</style>"}, res.Styles)
	require.Len(t, root.Children, 1)

	set = flags.Of(flags.NoStyle)
	root = parse(src, set)
	res = Collect(root, set)
	require.Empty(t, res.Styles)
	require.Len(t, root.Children, 2)
	require.Equal(t, block.StyleBlock, root.Children[0].Kind)
}
