package mkd

import "git.home.luguber.info/inful/mkd/internal/flags"

// Flag identifies one built-in behavior flag.
type Flag = flags.Flag

// Flags is a set of built-in flags plus named extensions.
type Flags = flags.Set

// Extension names a flag outside the bit-mask.
type Extension = flags.Extension

const (
	NoLinks          = flags.NoLinks
	NoImage          = flags.NoImage
	NoPants          = flags.NoPants
	NoHTML           = flags.NoHTML
	NormalListItem   = flags.NormalListItem
	TagText          = flags.TagText
	NoExt            = flags.NoExt
	ExplicitList     = flags.ExplicitList
	CData            = flags.CData
	NoSuperscript    = flags.NoSuperscript
	Strict           = flags.Strict
	NoTables         = flags.NoTables
	NoStrikethrough  = flags.NoStrikethrough
	Compat1          = flags.Compat1
	TOC              = flags.TOC
	Autolink         = flags.Autolink
	NoHeader         = flags.NoHeader
	TabStop          = flags.TabStop
	SafeLink         = flags.SafeLink
	NoDivQuote       = flags.NoDivQuote
	NoAlphaList      = flags.NoAlphaList
	ExtraFootnote    = flags.ExtraFootnote
	NoStyle          = flags.NoStyle
	DLDiscount       = flags.DLDiscount
	DLExtra          = flags.DLExtra
	FencedCode       = flags.FencedCode
	IDAnchor         = flags.IDAnchor
	GithubTags       = flags.GithubTags
	URLEncodedAnchor = flags.URLEncodedAnchor
	Latex            = flags.Latex
	AltAsTitle       = flags.AltAsTitle

	// Frontmatter accepts a leading YAML block as the document header.
	Frontmatter = flags.Frontmatter
)

// NewFlags returns an empty flag set.
func NewFlags() *Flags { return flags.New() }

// FlagsOf returns a set with fs active.
func FlagsOf(fs ...Flag) *Flags { return flags.Of(fs...) }

// FlagsFromBits imports a raw bit-mask.
func FlagsFromBits(mask uint64) *Flags { return flags.FromBits(mask) }

// ParseFlags builds a set from a list of flag names. The first unrecognized
// name is returned as an option error; every recognized name is applied.
func ParseFlags(list string) (*Flags, error) {
	f := flags.New()
	if bad := f.SetString(list); bad != "" {
		return f, unknownFlag(bad)
	}
	return f, nil
}
