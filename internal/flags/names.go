package flags

import (
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/mkd/internal/foundation/normalization"
)

// option is one entry of the textual flag table. Entries with inverted set
// the flag when the feature is turned off (image -> NOIMAGE).
type option struct {
	name     string
	desc     string
	flag     Flag
	inverted bool
	alias    bool
}

var options = []option{
	{"tabstop", "default (4-space) tabstops", TabStop, false, false},
	{"image", "images", NoImage, true, false},
	{"links", "links", NoLinks, true, false},
	{"relax", "emphasis inside words", Strict, true, true},
	{"strict", "emphasis inside words", Strict, false, false},
	{"tables", "tables", NoTables, true, false},
	{"header", "pandoc-style headers", NoHeader, true, false},
	{"html", "raw html", NoHTML, true, false},
	{"ext", "extended protocols", NoExt, true, false},
	{"cdata", "generate cdata", CData, false, false},
	{"smarty", "smartypants", NoPants, true, false},
	{"pants", "smartypants", NoPants, true, true},
	{"toc", "tables of contents", TOC, false, false},
	{"autolink", "autolinking", Autolink, false, false},
	{"safelink", "safe links", SafeLink, false, false},
	{"strikethrough", "strikethrough", NoStrikethrough, true, false},
	{"del", "strikethrough", NoStrikethrough, true, true},
	{"superscript", "superscript", NoSuperscript, true, false},
	{"divquote", ">%class% blockquotes", NoDivQuote, true, false},
	{"alphalist", "alpha lists", NoAlphaList, true, false},
	{"1.0", "markdown 1.0 compatibility", Compat1, false, false},
	{"footnotes", "markdown extra footnotes", ExtraFootnote, false, false},
	{"footnote", "markdown extra footnotes", ExtraFootnote, false, true},
	{"style", "extract style blocks", NoStyle, true, false},
	{"dldiscount", "discount-style definition lists", DLDiscount, false, false},
	{"dlextra", "extra-style definition lists", DLExtra, false, false},
	{"fencedcode", "fenced code blocks", FencedCode, false, false},
	{"idanchor", "id= anchors in TOC", IDAnchor, false, false},
	{"githubtags", "- and _ in element names", GithubTags, false, false},
	{"urlencodedanchor", "url-encoded anchors", URLEncodedAnchor, false, false},
	{"html5anchor", "url-encoded anchors", URLEncodedAnchor, false, true},
	{"latex", "latex passthrough", Latex, false, false},
	{"explicitlist", "don't merge adjacent numbered/bulleted lists", ExplicitList, false, false},
	{"checkbox", "github-style checkbox lists", NormalListItem, true, false},
	{"tagtext", "text only inside tags", TagText, false, false},
	{"alttitle", "alt text as image title", AltAsTitle, false, false},
}

type nameRef struct {
	option int // index into options, or -1 for an extension
	ext    Extension
}

var names = func() *normalization.Normalizer[nameRef] {
	table := make(map[string]nameRef, len(options)+len(extensions))
	for i, o := range options {
		table[o.name] = nameRef{option: i}
	}
	for name := range extensions {
		table[string(name)] = nameRef{option: -1, ext: name}
	}
	return normalization.NewNormalizer(table, nameRef{option: -1})
}()

// SetString applies a comma- or space-separated list of flag names.
//
// A name turns its feature on; a leading '-' or "no" turns it off and a
// leading '+' is accepted for symmetry. Every recognized token is applied.
// The first unrecognized token is returned, or "" when all were recognized.
func (s *Set) SetString(list string) string {
	bad := ""
	for _, tok := range strings.FieldsFunc(list, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	}) {
		if !s.apply(tok) && bad == "" {
			bad = tok
		}
	}
	return bad
}

func (s *Set) apply(tok string) bool {
	enable := true
	name := tok
	switch {
	case strings.HasPrefix(name, "+"):
		name = name[1:]
	case strings.HasPrefix(name, "-"):
		name, enable = name[1:], false
	}
	ref, ok := names.Lookup(name)
	if !ok && enable && len(name) > 2 && strings.EqualFold(name[:2], "no") {
		ref, ok = names.Lookup(name[2:])
		enable = false
	}
	if !ok {
		return false
	}
	if ref.option < 0 {
		return s.SetExtension(ref.ext, enable)
	}
	o := options[ref.option]
	if enable != o.inverted {
		s.Set(o.flag)
	} else {
		s.Clear(o.flag)
	}
	return true
}

// Names lists the canonical (non-alias) flag names accepted by SetString.
func Names() []string {
	out := make([]string, 0, len(options)+len(extensions))
	for _, o := range options {
		if !o.alias {
			out = append(out, o.name)
		}
	}
	for name := range extensions {
		out = append(out, string(name))
	}
	return out
}

// Describe writes the state of every built-in flag followed by the active
// extensions. Inactive flags are prefixed with '!'. With htmlplain the list
// is written as an html table.
func (s *Set) Describe(w io.Writer, htmlplain bool) error {
	if htmlplain {
		if _, err := io.WriteString(w, "<table class=\"mkd_flags_are\">\n"); err != nil {
			return err
		}
	}
	for f := Flag(0); f < NumFlags; f++ {
		name := f.String()
		set := s.IsSet(f)
		var err error
		switch {
		case htmlplain && set:
			_, err = fmt.Fprintf(w, "<tr><td>%s</td></tr>\n", name)
		case htmlplain:
			_, err = fmt.Fprintf(w, "<tr><td><s>%s</s></td></tr>\n", name)
		case set:
			_, err = fmt.Fprintf(w, "%s\n", name)
		default:
			_, err = fmt.Fprintf(w, "!%s\n", name)
		}
		if err != nil {
			return err
		}
	}
	for _, ext := range s.ActiveExtensions() {
		line := fmt.Sprintf("+%s\n", ext)
		if htmlplain {
			line = fmt.Sprintf("<tr><td>+%s</td></tr>\n", ext)
		}
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	if htmlplain {
		_, err := io.WriteString(w, "</table>\n")
		return err
	}
	return nil
}

// String returns the active flags as a comma-separated list of names that
// SetString accepts.
func (s *Set) String() string {
	var parts []string
	for _, o := range options {
		if o.alias {
			continue
		}
		if s.IsSet(o.flag) == o.inverted {
			continue
		}
		if o.inverted {
			parts = append(parts, "no"+o.name)
		} else {
			parts = append(parts, o.name)
		}
	}
	for _, ext := range s.ActiveExtensions() {
		parts = append(parts, string(ext))
	}
	return strings.Join(parts, ",")
}
