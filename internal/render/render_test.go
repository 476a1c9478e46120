package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mkd/internal/block"
	"git.home.luguber.info/inful/mkd/internal/callbacks"
	"git.home.luguber.info/inful/mkd/internal/flags"
	"git.home.luguber.info/inful/mkd/internal/frontmatter"
	"git.home.luguber.info/inful/mkd/internal/lines"
	"git.home.luguber.info/inful/mkd/internal/refs"
	"git.home.luguber.info/inful/mkd/internal/span"
)

func compile(src string, opts Options) *Renderer {
	f := opts.Flags
	root := block.Parse(lines.Split(src, lines.Options{Flags: f}), f)
	res := refs.Collect(root, f)
	idx := span.Process(root, res, f)
	return New(root, idx, res.Footnotes, opts)
}

func html(src string, fs ...flags.Flag) string {
	return string(compile(src, Options{Flags: flags.Of(fs...)}).HTML())
}

func TestHTML_HeaderAndReference(t *testing.T) {
	r := compile("# Hello\n\n[ref]\n\n[ref]: http://example.com \"T\"", Options{Flags: flags.New()})
	require.Equal(t, "<h1>Hello</h1>\n<p><a href=\"http://example.com\" title=\"T\">ref</a></p>\n", string(r.HTML()))
	require.Equal(t, "<ul>\n<li><a href=\"#Hello\">Hello</a></li>\n</ul>\n", string(r.TOC()))
	require.Equal(t, string(r.HTML()), string(r.HTML()))
}

func TestHTML_Blocks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		fs   []flags.Flag
	}{
		{"rule", "---\n", "<hr />\n", nil},
		{"blockquote", "> a\n", "<blockquote>\n<p>a</p>\n</blockquote>\n", nil},
		{"class block", ">%note%\n> a\n", "<div class=\"note\">\n<p>a</p>\n</div>\n", nil},
		{"id block", ">%id:top%\n> a\n", "<div id=\"top\">\n<p>a</p>\n</div>\n", nil},
		{"tight list", "- a\n- b\n", "<ul>\n<li>a</li>\n<li>b</li>\n</ul>\n", nil},
		{"loose list", "- a\n\n- b\n", "<ul>\n<li><p>a</p></li>\n<li><p>b</p></li>\n</ul>\n", nil},
		{"nested list", "- a\n    - b\n", "<ul>\n<li>a\n<ul>\n<li>b</li>\n</ul></li>\n</ul>\n", nil},
		{"ordered start", "3. a\n4. b\n", "<ol start=\"3\">\n<li>a</li>\n<li>b</li>\n</ol>\n", nil},
		{"alpha list", "a. x\nb. y\n", "<ol type=\"a\">\n<li>x</li>\n<li>y</li>\n</ol>\n", nil},
		{"indented code", "    x < y\n", "<pre><code>x &lt; y\n</code></pre>\n", nil},
		{"html block", "<div>\n*a*\n</div>\n", "<div>\n*a*\n</div>\n", nil},
		{"definition list", "Term\n: desc\n", "<dl>\n<dt>Term</dt>\n<dd>desc</dd>\n</dl>\n", []flags.Flag{flags.DLExtra}},
		{"hard break", "a  \nb\n", "<p>a<br/>\nb</p>\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, html(tt.in, append(tt.fs, flags.NoPants)...))
		})
	}
}

func TestHTML_Checkboxes(t *testing.T) {
	want := "<ul>\n" +
		"<li class=\"github_checkbox\"><input disabled=\"\" type=\"checkbox\"/>a</li>\n" +
		"<li class=\"github_checkbox\"><input disabled=\"\" type=\"checkbox\" checked=\"checked\"/>b</li>\n" +
		"</ul>\n"
	require.Equal(t, want, html("- [ ] a\n- [x] b\n"))
	require.Equal(t, "<ul>\n<li>[ ] a</li>\n</ul>\n", html("- [ ] a\n", flags.NormalListItem))
}

func TestHTML_Table(t *testing.T) {
	want := "<table>\n<thead>\n<tr>\n" +
		"<th style=\"text-align:left;\">a</th>\n<th style=\"text-align:right;\">b</th>\n" +
		"</tr>\n</thead>\n<tbody>\n<tr>\n" +
		"<td style=\"text-align:left;\">1</td>\n<td style=\"text-align:right;\"><em>2</em></td>\n" +
		"</tr>\n</tbody>\n</table>\n"
	require.Equal(t, want, html("a|b\n:--|--:\n1|*2*\n"))
	require.Equal(t, "<p>a|b\n:--|--:\n1|<em>2</em></p>\n", html("a|b\n:--|--:\n1|*2*\n", flags.NoTables, flags.NoPants))
}

func TestHTML_FencedCodeHook(t *testing.T) {
	const src = "~~~Go\nfmt.Println(1)\n~~~\n"
	var seen []callbacks.Call
	hooks := callbacks.New()
	hooks.Set(callbacks.Code, callbacks.Hook{Transform: func(c callbacks.Call) (string, bool) {
		seen = append(seen, c)
		return "<b>" + c.Lang + "</b>", true
	}})

	out := compile(src, Options{Flags: flags.Of(flags.FencedCode), Hooks: hooks}).HTML()
	require.Equal(t, "<pre><code class=\"Go\"><b>Go</b></code></pre>\n", string(out))
	require.Len(t, seen, 1)
	require.Equal(t, "Go", seen[0].Lang)
	require.Equal(t, "fmt.Println(1)\n", seen[0].Text)

	plain := compile(src, Options{Flags: flags.Of(flags.FencedCode)}).HTML()
	require.Equal(t, "<pre><code class=\"Go\">fmt.Println(1)\n</code></pre>\n", string(plain))

	seen = nil
	off := compile(src, Options{Flags: flags.New(), Hooks: hooks}).HTML()
	require.Equal(t, "<p>~~~Go\nfmt.Println(1)\n~~~</p>\n", string(off))
	require.Empty(t, seen)
}

func TestHTML_TOCAnchors(t *testing.T) {
	require.Equal(t, "<a name=\"A-b\"></a>\n<h1>A b</h1>\n<a name=\"C\"></a>\n<h2>C</h2>\n", html("# A b\n## C\n", flags.TOC))
	require.Equal(t, "<h1 id=\"A-b\">A b</h1>\n", html("# A b\n", flags.TOC, flags.IDAnchor))
	require.Equal(t, "<h1>A b</h1>\n", html("# A b\n"))
}

func TestHTML_AnchorHookNeedsIDAnchor(t *testing.T) {
	released := 0
	hooks := callbacks.New()
	hooks.Set(callbacks.Anchor, callbacks.Hook{
		Transform: func(c callbacks.Call) (string, bool) { return "x-" + c.Text, true },
		Release:   func(string, any) { released++ },
	})

	r := compile("# A\n", Options{Flags: flags.Of(flags.TOC), Hooks: hooks})
	require.Equal(t, "<a name=\"A\"></a>\n<h1>A</h1>\n", string(r.HTML()))
	require.Zero(t, released)

	r = compile("# A\n", Options{Flags: flags.Of(flags.TOC, flags.IDAnchor), Hooks: hooks})
	require.Equal(t, "<h1 id=\"x-A\">A</h1>\n", string(r.HTML()))
	require.Equal(t, "<ul>\n<li><a href=\"#x-A\">A</a></li>\n</ul>\n", string(r.TOC()))
	require.Equal(t, 2, released)
}

func TestTOC_Nesting(t *testing.T) {
	r := compile("# A\n## B\n## C\n# D\n", Options{Flags: flags.New()})
	want := "<ul>\n" +
		"<li><a href=\"#A\">A</a>\n<ul>\n" +
		"<li><a href=\"#B\">B</a></li>\n" +
		"<li><a href=\"#C\">C</a></li>\n" +
		"</ul>\n</li>\n" +
		"<li><a href=\"#D\">D</a></li>\n" +
		"</ul>\n"
	require.Equal(t, want, string(r.TOC()))

	require.Empty(t, compile("no headers\n", Options{Flags: flags.New()}).TOC())
}

func TestSlug(t *testing.T) {
	require.Equal(t, "Hello-World", Slug("Hello World", nil))
	require.Equal(t, "L1st", Slug("1st", nil))
	require.Equal(t, "a.b", Slug("a/b", nil))
	require.Equal(t, "a%2Fb", Slug("a/b", flags.Of(flags.URLEncodedAnchor)))
	require.Equal(t, "L", Slug("", nil))
	require.Equal(t, "x_y:z.w", Slug("x_y:z.w", nil))
}

func TestHTML_Footnotes(t *testing.T) {
	want := "<p>a<sup id=\"fnref:1\"><a href=\"#fn:1\" rel=\"footnote\">1</a></sup></p>\n" +
		"<div class=\"footnotes\">\n<hr/>\n<ol>\n" +
		"<li id=\"fn:1\">\n<p>note <a href=\"#fnref:1\" rev=\"footnote\">&#8617;</a></p>\n</li>\n" +
		"</ol>\n</div>\n"
	require.Equal(t, want, html("a[^1]\n\n[^1]: note\n", flags.ExtraFootnote))

	r := compile("a[^1]\n\n[^1]: note\n", Options{Flags: flags.Of(flags.ExtraFootnote), RefPrefix: "x"})
	out := string(r.HTML())
	require.Contains(t, out, `<sup id="xref:1"><a href="#x:1" rel="footnote">1</a></sup>`)
	require.Contains(t, out, `<li id="x:1">`)
}

func TestHTML_RepeatedFootnoteRefKeepsIDsUnique(t *testing.T) {
	r := compile("a[^1] b[^1]\n\n[^1]: note\n", Options{Flags: flags.Of(flags.ExtraFootnote)})
	for i := 0; i < 2; i++ {
		out := string(r.HTML())
		require.Equal(t, 1, strings.Count(out, `id="fnref:1"`))
		require.Equal(t, 2, strings.Count(out, `<a href="#fn:1" rel="footnote">1</a></sup>`))
		require.Contains(t, out, `b<sup><a href="#fn:1" rel="footnote">1</a></sup>`)
	}
}

func TestHTML_CDATA(t *testing.T) {
	require.Equal(t, "<p>a <b>x</b></p>\n", html("a <b>x</b>\n"))
	require.Equal(t, "&lt;p&gt;a &lt;b&gt;x&lt;/b&gt;&lt;/p&gt;\n", html("a <b>x</b>\n", flags.CData))
}

func TestHTML_PseudoProtocols(t *testing.T) {
	require.Equal(t, "<p><abbr title=\"HyperText\">HTML</abbr></p>\n", html("[HTML](abbr:HyperText)\n"))
	require.Equal(t, "<p><span class=\"red\">x</span></p>\n", html("[x](class:red)\n"))
	require.Equal(t, "<p><span id=\"top\">x</span></p>\n", html("[x](id:top)\n"))
	require.Equal(t, "<p><span lang=\"fr\">x</span></p>\n", html("[x](lang:fr)\n"))
	require.Equal(t, "<p><i></p>\n", html("[x](raw:<i>)\n"))
	require.Equal(t, "<p><a href=\"class:red\">x</a></p>\n", html("[x](class:red)\n", flags.NoExt))
}

func TestHTML_LinksAndHooks(t *testing.T) {
	calls, released := 0, 0
	hooks := callbacks.New()
	hooks.Set(callbacks.URL, callbacks.Hook{
		Transform: func(c callbacks.Call) (string, bool) {
			calls++
			return strings.ToUpper(c.Text), true
		},
		Release: func(string, any) { released++ },
	})
	hooks.Set(callbacks.LinkAttr, callbacks.Hook{Transform: func(callbacks.Call) (string, bool) {
		return `target="_blank"`, true
	}})

	r := compile("[a](/x) and <http://b.c>\n", Options{Flags: flags.New(), Base: "http://h/", Hooks: hooks})
	require.Equal(t, "<p><a href=\"HTTP://H/X\" target=\"_blank\">a</a> and <a href=\"HTTP://B.C\" target=\"_blank\">http://b.c</a></p>\n", string(r.HTML()))
	require.Equal(t, 2, calls)
	require.Equal(t, calls, released)

	require.Equal(t, "<p><a href=\"http://h/x\">a</a></p>\n",
		string(compile("[a](/x)\n", Options{Flags: flags.New(), Base: "http://h"}).HTML()))
}

func TestHTML_Images(t *testing.T) {
	require.Equal(t, "<p><img src=\"i.png\" alt=\"alt\" /></p>\n", html("![alt](i.png)\n"))
	require.Equal(t, "<p><img src=\"i.png\" alt=\"alt\" title=\"alt\" /></p>\n", html("![alt](i.png)\n", flags.AltAsTitle))
	require.Equal(t, "<p><img src=\"i.png\" alt=\"alt\" title=\"T\" width=\"10\" /></p>\n", html("![alt](i.png =10x \"T\")\n", flags.AltAsTitle))
}

func TestLine(t *testing.T) {
	opts := Options{Flags: flags.Of(flags.NoPants)}
	p := span.NewProcessor(opts.Flags, nil, nil)
	require.Equal(t, "<em>a</em> &amp; <code>b</code>", string(Line(p.Line("*a* & `b`"), opts)))

	opts.Flags.Set(flags.TagText)
	require.Equal(t, "a &amp; b", string(Line(p.Line("*a* & [b](u)"), opts)))
}

func TestXML(t *testing.T) {
	require.Equal(t, "&lt;a href=&quot;x&quot;&gt;&apos;&amp;&apos;&lt;/a&gt;", string(XML([]byte(`<a href="x">'&'</a>`))))
}

func TestPage(t *testing.T) {
	title, author := "T<", "me"
	out := string(Page(frontmatter.Meta{Title: &title, Author: &author}, []byte("<style>p{}</style>\n"), []byte("<p>x</p>\n")))
	require.True(t, strings.HasPrefix(out, "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<!DOCTYPE html"))
	require.Contains(t, out, "<title>T&lt;</title>\n<meta name=\"author\" content=\"me\" />\n<style>p{}</style>\n</head>")
	require.NotContains(t, out, "name=\"date\"")
	require.True(t, strings.HasSuffix(out, "<body>\n<p>x</p>\n</body>\n</html>\n"))
}

func TestCSS(t *testing.T) {
	require.Equal(t, "<style>a</style>\n<style>b</style>\n", string(CSS([]string{"<style>a</style>", "<style>b</style>"})))
	require.Empty(t, CSS(nil))
}

func TestDump(t *testing.T) {
	r := compile("# Hello\n\n- a\n", Options{Flags: flags.Of(flags.NoPants)})
	want := "doc\ndocument\n  header level=1 \"Hello\"\n  list\n    item\n      paragraph \"a\"\n"
	require.Equal(t, want, string(r.Dump("doc")))
}
