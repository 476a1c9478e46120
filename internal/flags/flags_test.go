package flags

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet_SetClearIsSet(t *testing.T) {
	s := New()
	require.False(t, s.IsSet(TOC))

	s.Set(TOC)
	s.Set(FencedCode)
	require.True(t, s.IsSet(TOC))
	require.True(t, s.IsSet(FencedCode))

	s.Clear(TOC)
	require.False(t, s.IsSet(TOC))
	require.Equal(t, []Flag{FencedCode}, s.Active())
}

func TestSet_NilIsEmpty(t *testing.T) {
	var s *Set
	require.False(t, s.IsSet(NoLinks))
	require.Zero(t, s.Bits())
	require.False(t, s.Extension(Frontmatter))
	require.True(t, New().Equal(s.Copy()))
}

func TestSet_BitsRoundTrip(t *testing.T) {
	s := Of(NoLinks, Strict, TOC, AltAsTitle, Latex)
	mask := s.Bits()

	back := FromBits(mask)
	require.Equal(t, s.Active(), back.Active())
	require.Equal(t, mask, back.Bits())
}

func TestSet_SetBitsDropsUnknownBits(t *testing.T) {
	s := FromBits(^uint64(0))
	require.Len(t, s.Active(), int(NumFlags))
	require.Equal(t, uint64(1)<<NumFlags-1, s.Bits())
}

func TestSet_CopyIsDeep(t *testing.T) {
	s := Of(TOC)
	require.True(t, s.SetExtension(Frontmatter, true))

	c := s.Copy()
	c.Clear(TOC)
	c.SetExtension(Frontmatter, false)

	require.True(t, s.IsSet(TOC))
	require.True(t, s.Extension(Frontmatter))
	require.False(t, c.Extension(Frontmatter))
}

func TestSet_SetString(t *testing.T) {
	tests := []struct {
		name string
		list string
		want []Flag
		bad  string
	}{
		{"plain names", "toc,fencedcode", []Flag{TOC, FencedCode}, ""},
		{"inverted feature off", "noimage -links", []Flag{NoLinks, NoImage}, ""},
		{"inverted feature on", "+image", nil, ""},
		{"case insensitive", "TOC, AutoLink", []Flag{TOC, Autolink}, ""},
		{"first unknown returned", "toc,bogus,latex,worse", []Flag{TOC, Latex}, "bogus"},
		{"aliases", "footnote,nopants", []Flag{NoPants, ExtraFootnote}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			require.Equal(t, tt.bad, s.SetString(tt.list))
			require.Equal(t, tt.want, s.Active())
		})
	}
}

func TestSet_SetStringExtensions(t *testing.T) {
	s := New()
	require.Empty(t, s.SetString("frontmatter"))
	require.True(t, s.Extension(Frontmatter))
	require.Zero(t, s.Bits())

	require.Empty(t, s.SetString("nofrontmatter"))
	require.False(t, s.Extension(Frontmatter))
}

func TestSet_StringRoundTrip(t *testing.T) {
	s := Of(NoImage, Strict, TOC, DLExtra, NoPants, URLEncodedAnchor)
	s.SetExtension(Frontmatter, true)

	back := New()
	require.Empty(t, back.SetString(s.String()))
	require.True(t, s.Equal(back), "got %s", back.String())
}

func TestSet_Describe(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Of(TOC).Describe(&buf, false))
	out := buf.String()
	require.Contains(t, out, "\nTOC\n")
	require.Contains(t, out, "!NOLINKS\n")

	buf.Reset()
	require.NoError(t, Of(TOC).Describe(&buf, true))
	require.Contains(t, buf.String(), "<tr><td>TOC</td></tr>")
	require.Contains(t, buf.String(), "<s>NOLINKS</s>")
}

func TestFlag_String(t *testing.T) {
	require.Equal(t, "NOLINKS", NoLinks.String())
	require.Equal(t, "ALT_AS_TITLE", AltAsTitle.String())
	require.Equal(t, "UNKNOWN", NumFlags.String())
	require.Equal(t, Flag(30), AltAsTitle)
}
