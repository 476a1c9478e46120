package span

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mkd/internal/block"
	"git.home.luguber.info/inful/mkd/internal/flags"
	"git.home.luguber.info/inful/mkd/internal/lines"
	"git.home.luguber.info/inful/mkd/internal/refs"
)

// dump processes one line with typographic substitution off.
func dump(text string, fs ...flags.Flag) string {
	f := flags.Of(fs...)
	f.Set(flags.NoPants)
	return Dump(NewProcessor(f, nil, nil).Line(text))
}

func TestLine_Emphasis(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		fs   []flags.Flag
	}{
		{"plain", "plain text", `"plain text"`, nil},
		{"em and strong", "*a* and **b**", `em("a") " and " strong("b")`, nil},
		{"triple", "***x***", `strong(em("x"))`, nil},
		{"longer opener", "**foo*", `"*" em("foo")`, nil},
		{"longer closer", "*foo**", `em("foo") "*"`, nil},
		{"spaced stars", "4 * 5 * 6", `"4 * 5 * 6"`, nil},
		{"intraword underscore", "snake_case_name", `"snake_case_name"`, nil},
		{"intraword underscore strict", "snake_case_name", `"snake" em("case") "name"`, []flags.Flag{flags.Strict}},
		{"underscore words", "_a_ __b__", `em("a") " " strong("b")`, nil},
		{"strikethrough", "a ~~b~~ c", `"a " del("b") " c"`, nil},
		{"strikethrough off", "a ~~b~~ c", `"a ~~b~~ c"`, []flags.Flag{flags.NoStrikethrough}},
		{"single tilde", "a ~b~ c", `"a ~b~ c"`, nil},
		{"escapes", `\*a\* \[b\]`, `"*a* [b]"`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, dump(tt.in, tt.fs...))
		})
	}
}

func TestLine_CodeAndMarkup(t *testing.T) {
	require.Equal(t, `code"a *b*"`, dump("`a *b*`"))
	require.Equal(t, `code"x ` + "`" + ` y"`, dump("`` x ` y ``"))
	require.Equal(t, `"`+"``"+`open"`, dump("``open"))

	require.Equal(t, `"a " raw"<b>" "x" raw"</b>"`, dump("a <b>x</b>"))
	require.Equal(t, `"a <b>x</b>"`, dump("a <b>x</b>", flags.NoHTML))
	require.Equal(t, `raw"<!-- c -->"`, dump("<!-- c -->"))
	require.Equal(t, `"<my-tag>"`, dump("<my-tag>"))
	require.Equal(t, `raw"<my-tag>"`, dump("<my-tag>", flags.GithubTags))
	require.Equal(t, `"<a href=\"x\">y"`, dump(`<a href="x">y`, flags.NoLinks))
	require.Equal(t, `"<img src=\"x\">"`, dump(`<img src="x">`, flags.NoImage))

	require.Equal(t, `entity"&amp;" " &bogus;"`, dump("&amp; &bogus;"))
	require.Equal(t, `entity"&#169;" entity"&#x27;"`, dump("&#169;&#x27;"))
}

func TestLine_Superscript(t *testing.T) {
	require.Equal(t, `"x" sup("2") " y"`, dump("x^2 y"))
	require.Equal(t, `"e" sup("i pi")`, dump("e^(i pi)"))
	require.Equal(t, `"x^2 y"`, dump("x^2 y", flags.NoSuperscript))
	require.Equal(t, `"x^2 y"`, dump("x^2 y", flags.Strict))
	require.Equal(t, `"a ^b"`, dump("a ^b"))
	require.Equal(t, `"[^b]"`, dump("[^b]"))
	require.Equal(t, `"a^(x a" sup("y")`, dump("a^(x a^(y)"))
}

func TestLine_Math(t *testing.T) {
	require.Equal(t, `"a " math"$$x^2$$"`, dump("a $$x^2$$", flags.Latex))
	require.Equal(t, `math"\\(y\\)"`, dump(`\(y\)`, flags.Latex))
	require.Equal(t, `"a $$x" sup("2") "$$"`, dump("a $$x^2$$"))
	require.Equal(t, `math"$$a$$" " $$b"`, dump("$$a$$ $$b", flags.Latex))
}

func TestLine_InlineLinks(t *testing.T) {
	p := NewProcessor(flags.Of(flags.NoPants), nil, nil)

	spans := p.Line(`[a](http://x "T")`)
	require.Equal(t, `link<http://x>("a")`, Dump(spans))
	url, title, hasTitle := spans[0].Target()
	require.Equal(t, "http://x", url)
	require.Equal(t, "T", title)
	require.True(t, hasTitle)

	spans = p.Line("![alt](i.png =10x20)")
	require.Equal(t, `img<i.png>("alt")`, Dump(spans))
	w, h := spans[0].Size()
	require.Equal(t, 10, w)
	require.Equal(t, 20, h)

	require.Equal(t, `link<u>(em("a"))`, dump("[*a*](u)"))
	require.Equal(t, `link<(x)>("p")`, dump("[p](<(x)>)"))
	require.Equal(t, `link<a(b)c>("p")`, dump("[p](a(b)c)"))
	require.Equal(t, `"[" link<b>("a") "](c)"`, dump("[[a](b)](c)"))
	require.Equal(t, `"[a](b"`, dump("[a](b"))
	require.Equal(t, `"!" link<y>("x")`, dump("![x](y)", flags.NoImage))
	require.Equal(t, `"[x](y)"`, dump("[x](y)", flags.NoLinks))
}

func TestLine_PseudoProtocols(t *testing.T) {
	p := NewProcessor(flags.Of(flags.NoPants), nil, nil)
	spans := p.Line("[HTML](abbr:HyperText)")
	require.Len(t, spans, 1)
	require.Equal(t, "abbr", spans[0].Proto)
	require.Equal(t, "HyperText", spans[0].URL)

	p = NewProcessor(flags.Of(flags.NoPants, flags.NoExt), nil, nil)
	spans = p.Line("[HTML](abbr:HyperText)")
	require.Empty(t, spans[0].Proto)
	require.Equal(t, "abbr:HyperText", spans[0].URL)
}

func TestLine_SafeLink(t *testing.T) {
	require.Equal(t, `link<javascript:alert(1)>("x")`, dump("[x](javascript:alert(1))"))
	require.Equal(t, `"[x](javascript:alert(1))"`, dump("[x](javascript:alert(1))", flags.SafeLink))
	require.Equal(t, `link</rel/path:x>("x")`, dump("[x](/rel/path:x)", flags.SafeLink))
	require.True(t, SafeURL("https://example.com"))
	require.True(t, SafeURL("page.html"))
	require.False(t, SafeURL("data:text/html,x"))
}

func TestLine_ReferenceLinks(t *testing.T) {
	links := refs.NewTable()
	links.Add(&refs.Link{Label: "Ref", URL: "http://e", Title: "E", HasTitle: true})
	links.Add(&refs.Link{Label: "pic", URL: "p.png", Width: 5})
	p := NewProcessor(flags.Of(flags.NoPants), links, nil)

	tests := []struct{ in, want string }{
		{"[txt][ref]", `link<http://e>("txt")`},
		{"[txt] [REF]", `link<http://e>("txt")`},
		{"[Ref][]", `link<http://e>("Ref")`},
		{"[ref]", `link<http://e>("ref")`},
		{"[nope]", `"[nope]"`},
		{"[txt][nope]", `"[txt][nope]"`},
		{"![alt][pic]", `img<p.png>("alt")`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, Dump(p.Line(tt.in)))
		})
	}

	spans := p.Line("![alt][pic]")
	w, _ := spans[0].Size()
	require.Equal(t, 5, w)
	require.Same(t, spans[0].Ref, mustLookup(t, links, "PIC"))
}

func mustLookup(t *testing.T, links *refs.Table, label string) *refs.Link {
	t.Helper()
	l, ok := links.Lookup(label)
	require.True(t, ok)
	return l
}

func TestLine_Autolinks(t *testing.T) {
	p := NewProcessor(flags.Of(flags.NoPants), nil, nil)
	spans := p.Line("<me@x.org>")
	require.Equal(t, `autolink"me@x.org"`, Dump(spans))
	require.Equal(t, "mailto:me@x.org", spans[0].URL)

	require.Equal(t, `autolink"http://a.b"`, dump("<http://a.b>"))
	require.Equal(t, `"<http://a.b>"`, dump("<http://a.b>", flags.NoLinks))
	require.Equal(t, `"see http://a.b/c."`, dump("see http://a.b/c."))
	require.Equal(t, `"see " autolink"http://a.b/c" "."`, dump("see http://a.b/c.", flags.Autolink))
	require.Equal(t, `"(" autolink"http://a.b/(x)" ")"`, dump("(http://a.b/(x))", flags.Autolink))
}

func TestLines_HardBreak(t *testing.T) {
	p := NewProcessor(flags.Of(flags.NoPants), nil, nil)
	spans := p.Lines([]lines.Line{{Text: "a  ", HardBreak: true}, {Text: "b"}, {Text: "c"}})
	require.Equal(t, `"a" br "b\nc"`, Dump(spans))
}

func TestLine_Smartypants(t *testing.T) {
	p := NewProcessor(flags.New(), nil, nil)
	got := Dump(p.Line(`"Hi" -- it's...`))
	require.Equal(t, `entity"&ldquo;" "Hi" entity"&rdquo;" " " entity"&ndash;" " it" entity"&rsquo;" "s" entity"&hellip;"`, got)

	require.Equal(t, `entity"&copy;" " " entity"&frac12;" " 11/2"`, Dump(p.Line("(c) 1/2 11/2")))
	require.Equal(t, `code"\"x\""`, Dump(p.Line("`\"x\"`")))
	require.Equal(t, `em(entity"&lsquo;" "a" entity"&rsquo;")`, Dump(p.Line("*'a'*")))

	off := NewProcessor(flags.Of(flags.NoPants), nil, nil)
	require.Equal(t, `"\"Hi\" -- it's..."`, Dump(off.Line(`"Hi" -- it's...`)))
}

func TestProcess_FootnotesInReferenceOrder(t *testing.T) {
	f := flags.Of(flags.ExtraFootnote, flags.NoPants)
	src := "a[^n] b\n\n[^n]: note [^m]\n\n[^m]: other\n\n[^z]: unused\n"
	root := block.Parse(lines.Split(src, lines.Options{Flags: f}), f)
	res := refs.Collect(root, f)
	idx := Process(root, res, f)

	require.Len(t, root.Children, 1)
	require.Equal(t, `"a" fnref1 " b"`, Dump(idx[root.Children[0]]))

	order := res.Footnotes.Referenced()
	require.Len(t, order, 2)
	require.Equal(t, "n", order[0].Label)
	require.Equal(t, "m", order[1].Label)
	require.Equal(t, `"note " fnref2`, Dump(idx[order[0].Content.Children[0]]))
	require.Equal(t, `"other"`, Dump(idx[order[1].Content.Children[0]]))

	unused, ok := res.Footnotes.Lookup("z")
	require.True(t, ok)
	require.Zero(t, unused.Ordinal)
}

func TestLine_FootnoteNeedsFlag(t *testing.T) {
	notes := refs.NewFootnotes()
	notes.Add(&refs.Footnote{Label: "1"})
	p := NewProcessor(flags.Of(flags.NoPants), nil, notes)
	require.Equal(t, `"x[^1]"`, Dump(p.Line("x[^1]")))

	p = NewProcessor(flags.Of(flags.NoPants, flags.ExtraFootnote), nil, notes)
	require.Equal(t, `"x" fnref1`, Dump(p.Line("x[^1]")))
}

func TestPlainText(t *testing.T) {
	p := NewProcessor(flags.Of(flags.NoPants), nil, nil)
	require.Equal(t, "a b c & d", PlainText(p.Line("*a* `b` [c](u) &amp; d")))
}

func TestLine_GarbageTerminates(t *testing.T) {
	p := NewProcessor(flags.Of(flags.Autolink, flags.Latex, flags.ExtraFootnote), nil, refs.NewFootnotes())
	for _, in := range []string{"[[[[", "]]]]", "**__**__", "<<<>>>", "`", "![", "\\", "&", "^(", "$$", "h", "~~~", "[^", "[a](", "<a href=\"x"} {
		require.NotPanics(t, func() { p.Line(in) }, in)
	}
}

func TestLine_UnclosedOpenersStayLinear(t *testing.T) {
	const n = 100000
	tests := []struct {
		name string
		in   string
		fs   []flags.Flag
	}{
		{"superscript parens", strings.Repeat("a^(", n), nil},
		{"latex parens", strings.Repeat(`\(`, n), []flags.Flag{flags.Latex}},
		{"latex brackets", strings.Repeat(`x\[`, n), []flags.Flag{flags.Latex}},
		{"dollars", "$$" + strings.Repeat("x$", n), []flags.Flag{flags.Latex}},
		{"angle", strings.Repeat("<a", n), nil},
		{"comments", strings.Repeat("<!--", n) + ">", nil},
		{"footnote refs", strings.Repeat("[^", n), []flags.Flag{flags.ExtraFootnote}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProcessor(flags.Of(append(tt.fs, flags.NoPants)...), nil, refs.NewFootnotes())
			start := time.Now()
			spans := p.Line(tt.in)
			require.Less(t, time.Since(start), 2*time.Second)
			require.Equal(t, strings.ReplaceAll(tt.in, `\`, ""), PlainText(spans))
		})
	}
}
