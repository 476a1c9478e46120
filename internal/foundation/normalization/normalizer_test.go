package normalization

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type mode string

const (
	modeHTML mode = "html"
	modeTOC  mode = "toc"
	modeCSS  mode = "css"
)

func TestNormalizer_Basic(t *testing.T) {
	normalizer := NewNormalizer(map[string]mode{
		"html": modeHTML,
		"toc":  modeTOC,
		"css":  modeCSS,
	}, modeHTML)

	tests := []struct {
		name     string
		input    string
		expected mode
	}{
		{"exact match", "toc", modeTOC},
		{"case insensitive", "CSS", modeCSS},
		{"with spaces", "  toc  ", modeTOC},
		{"invalid input", "pdf", modeHTML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, normalizer.Normalize(tt.input))
		})
	}
}

func TestNormalizer_WithError(t *testing.T) {
	normalizer := NewNormalizer(map[string]mode{"html": modeHTML, "toc": modeTOC}, modeHTML)

	got, err := normalizer.NormalizeWithError("TOC")
	require.NoError(t, err)
	require.Equal(t, modeTOC, got)

	_, err = normalizer.NormalizeWithError("pdf")
	require.Error(t, err)
	require.Contains(t, err.Error(), "[html toc]")
}

func TestNormalizer_Lookup(t *testing.T) {
	normalizer := NewNormalizer(map[string]int{"tabstop": 17}, -1)

	v, ok := normalizer.Lookup(" TabStop ")
	require.True(t, ok)
	require.Equal(t, 17, v)

	_, ok = normalizer.Lookup("tabstops")
	require.False(t, ok)
}

func TestWithCustomNormalizer(t *testing.T) {
	upper := func(s string) string { return strings.ToUpper(s) }
	normalizer := WithCustomNormalizer(map[string]int{"toc": 14}, 0, upper)

	require.Equal(t, []string{"TOC"}, normalizer.ValidKeys())
	require.Equal(t, 14, normalizer.Normalize("toc"))
	require.Equal(t, 0, normalizer.Normalize(" toc"))
}
