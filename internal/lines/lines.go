// Package lines turns raw input into the normalized line sequence consumed by
// the block parser.
package lines

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"git.home.luguber.info/inful/mkd/internal/flags"
	"git.home.luguber.info/inful/mkd/internal/foundation/errors"
)

// DefaultTabStop is the tab width used when none is configured.
const DefaultTabStop = 4

// Dialect selects the line-level pre-pass.
type Dialect int

const (
	// Markdown is the classic dialect.
	Markdown Dialect = iota
	// GFM treats every line break inside a paragraph as a hard break.
	GFM
)

func (d Dialect) String() string {
	if d == GFM {
		return "gfm"
	}
	return "markdown"
}

// Line is one normalized input line.
type Line struct {
	// Text is the tab-expanded line without its line terminator.
	Text string
	// Indent is the number of leading spaces in Text.
	Indent int
	// HardBreak marks a line ending in a forced line break.
	HardBreak bool
}

// Blank reports whether the line holds only whitespace.
func (l Line) Blank() bool {
	return l.Indent == len(l.Text) || strings.TrimSpace(l.Text) == ""
}

// Options configures assembly.
type Options struct {
	Flags   *flags.Set
	Dialect Dialect
	// TabStop is the tab width. Values below one mean DefaultTabStop. The
	// TABSTOP flag forces DefaultTabStop.
	TabStop int
}

func (o Options) tabStop() int {
	if o.Flags.IsSet(flags.TabStop) || o.TabStop < 1 {
		return DefaultTabStop
	}
	return o.TabStop
}

// FromReader reads r to the end and assembles its lines. A read error yields
// an empty line set and an input error.
func FromReader(r io.Reader, opts Options) ([]Line, error) {
	if r == nil {
		return nil, errors.InputError("no input stream").Build()
	}
	var out []Line
	br := bufio.NewReader(r)
	for {
		raw, err := br.ReadString('\n')
		if raw != "" {
			out = append(out, assemble(raw, opts))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryInput, "read input").Build()
		}
	}
	return finish(out, opts), nil
}

// FromBuffer assembles the first n bytes of buf. A non-positive n or one
// exceeding the buffer yields an empty line set and an input error.
func FromBuffer(buf []byte, n int, opts Options) ([]Line, error) {
	if n <= 0 || n > len(buf) {
		return nil, errors.InputError("invalid buffer length").
			WithContext("length", n).
			WithContext("size", len(buf)).
			Build()
	}
	return Split(string(buf[:n]), opts), nil
}

// Split assembles the lines of text.
func Split(text string, opts Options) []Line {
	if text == "" {
		return nil
	}
	var out []Line
	for text != "" {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			out = append(out, assemble(text, opts))
			break
		}
		out = append(out, assemble(text[:i+1], opts))
		text = text[i+1:]
	}
	return finish(out, opts)
}

func assemble(raw string, opts Options) Line {
	raw = strings.TrimSuffix(raw, "\n")
	raw = strings.TrimSuffix(raw, "\r")
	text := Expand(raw, opts.tabStop())
	return Line{
		Text:      text,
		Indent:    len(text) - len(strings.TrimLeft(text, " ")),
		HardBreak: strings.HasSuffix(text, "  ") && strings.TrimSpace(text) != "",
	}
}

func finish(out []Line, opts Options) []Line {
	if opts.Dialect != GFM {
		return out
	}
	for i := range out {
		if !out[i].Blank() {
			out[i].HardBreak = true
		}
	}
	return out
}

// Expand replaces tabs with spaces up to the next multiple of width.
func Expand(s string, width int) string {
	if strings.IndexByte(s, '\t') < 0 {
		return s
	}
	if width < 1 {
		width = DefaultTabStop
	}
	var b bytes.Buffer
	col := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\t' {
			n := width - col%width
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteByte(c)
		// continuation bytes of a UTF-8 sequence do not advance the column
		if c&0xC0 != 0x80 {
			col++
		}
	}
	return b.String()
}

// Texts returns the Text of every line.
func Texts(ls []Line) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.Text
	}
	return out
}
