// Package flags implements the option set that steers every stage of the
// compiler: a fixed enumeration of built-in behavior flags stored in a small
// bitset, plus an open table of named extensions kept apart from the bitset
// so new extensions never disturb the bit-mask layout.
package flags

// Flag identifies one built-in behavior flag. The numeric values are part of
// the bit-mask layout and must never be reordered.
type Flag uint

const (
	NoLinks          Flag = iota // don't do link processing, block <a> tags
	NoImage                      // don't do image processing, block <img>
	NoPants                      // don't run typographic substitution
	NoHTML                       // don't allow raw html through at all
	NormalListItem               // disable github-style checkbox lists
	TagText                      // emit text only, no tags (titles, alt text)
	NoExt                        // don't allow pseudo-protocols
	ExplicitList                 // don't combine numbered/bulleted lists
	CData                        // emit the body xml-escaped
	NoSuperscript                // no A^B
	Strict                       // conform to Markdown.pl
	NoTables                     // disallow tables
	NoStrikethrough              // forbid ~~strikethrough~~
	Compat1                      // compatibility with MarkdownTest 1.0
	TOC                          // do table-of-contents processing
	Autolink                     // make http://foo.com a link even without <>s
	NoHeader                     // don't process header blocks
	TabStop                      // expand tabs to 4 spaces
	SafeLink                     // paranoid check for link protocol
	NoDivQuote                   // forbid >%class% blocks
	NoAlphaList                  // forbid alphabetic lists
	ExtraFootnote                // enable markdown extra-style footnotes
	NoStyle                      // don't extract <style> blocks
	DLDiscount                   // enable discount-style definition lists
	DLExtra                      // enable extra-style definition lists
	FencedCode                   // enable fenced code blocks
	IDAnchor                     // use id= anchors for TOC links
	GithubTags                   // allow dash and underscore in element names
	URLEncodedAnchor             // urlencode non-identifier chars in anchors
	Latex                        // handle embedded LaTeX escapes
	AltAsTitle                   // use alt text as the title if none is given

	NumFlags
)

var flagNames = [NumFlags]string{
	"NOLINKS", "NOIMAGE", "NOPANTS", "NOHTML", "NORMAL_LISTITEM", "TAGTEXT",
	"NO_EXT", "EXPLICITLIST", "CDATA", "NOSUPERSCRIPT", "STRICT", "NOTABLES",
	"NOSTRIKETHROUGH", "1_COMPAT", "TOC", "AUTOLINK", "NOHEADER", "TABSTOP",
	"SAFELINK", "NODIVQUOTE", "NOALPHALIST", "EXTRA_FOOTNOTE", "NOSTYLE",
	"DLDISCOUNT", "DLEXTRA", "FENCEDCODE", "IDANCHOR", "GITHUBTAGS",
	"URLENCODEDANCHOR", "LATEX", "ALT_AS_TITLE",
}

// String returns the canonical upper-case name of the flag.
func (f Flag) String() string {
	if f >= NumFlags {
		return "UNKNOWN"
	}
	return flagNames[f]
}

// Valid reports whether f is one of the built-in flags.
func (f Flag) Valid() bool {
	return f < NumFlags
}

// Extension names a flag that lives outside the bitset.
type Extension string

const (
	// Frontmatter accepts a leading YAML block as the document header.
	Frontmatter Extension = "frontmatter"
)

var extensions = map[Extension]string{
	Frontmatter: "YAML metadata header",
}

// KnownExtension reports whether name is a registered extension.
func KnownExtension(name Extension) bool {
	_, ok := extensions[name]
	return ok
}
