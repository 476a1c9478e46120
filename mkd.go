package mkd

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/mkd/internal/block"
	"git.home.luguber.info/inful/mkd/internal/callbacks"
	"git.home.luguber.info/inful/mkd/internal/flags"
	"git.home.luguber.info/inful/mkd/internal/foundation/errors"
	"git.home.luguber.info/inful/mkd/internal/frontmatter"
	"git.home.luguber.info/inful/mkd/internal/lines"
	"git.home.luguber.info/inful/mkd/internal/logfields"
	"git.home.luguber.info/inful/mkd/internal/metrics"
	"git.home.luguber.info/inful/mkd/internal/render"
	"git.home.luguber.info/inful/mkd/internal/span"
	"git.home.luguber.info/inful/mkd/internal/version"
)

// Document is a Markdown document. It is compiled once and can then be
// rendered repeatedly until Cleanup.
type Document interface {
	// Compile parses the document. A nil set keeps the flags given at
	// construction. Compiling an already compiled document does nothing.
	Compile(f *Flags) error

	// Title, Author and Date report the header metadata.
	Title() (string, bool)
	Author() (string, bool)
	Date() (string, bool)

	// Document, TOC and CSS return the rendered body, table of contents
	// and extracted style blocks.
	Document() ([]byte, error)
	TOC() ([]byte, error)
	CSS() ([]byte, error)

	WriteHTML(w io.Writer) (int, error)
	WriteTOC(w io.Writer) (int, error)
	WriteCSS(w io.Writer) (int, error)
	// WriteXHTMLPage writes a complete XHTML page.
	WriteXHTMLPage(w io.Writer) (int, error)
	// Dump writes an outline of the block tree.
	Dump(w io.Writer, title string) (int, error)

	// SetBase sets the url prefixed to links and images starting with "/".
	SetBase(base string)
	// SetRefPrefix sets the prefix of footnote ids.
	SetRefPrefix(prefix string)

	SetURLHook(t Transform, r Release, data any)
	SetAnchorHook(t Transform, r Release, data any)
	SetCodeHook(t Transform, r Release, data any)
	SetLinkAttrHook(t Transform, r Release, data any)
	SetRecorder(r Recorder)

	Label() string

	// Cleanup releases the compiled state. Later renders fail.
	Cleanup()
}

// In reads a document from r.
//
// When r cannot be read the returned document is empty but usable and the
// error has the input category.
func In(r io.Reader, f *Flags, opts ...Option) (Document, error) {
	return build(func(o lines.Options) ([]lines.Line, error) {
		return lines.FromReader(r, o)
	}, f, lines.Markdown, opts)
}

// String reads a document from the first n bytes of buf. A non-positive n
// or one beyond the buffer yields an empty document and an input error.
func String(buf []byte, n int, f *Flags, opts ...Option) (Document, error) {
	return build(func(o lines.Options) ([]lines.Line, error) {
		return lines.FromBuffer(buf, n, o)
	}, f, lines.Markdown, opts)
}

// GFMIn reads a document in the github dialect, where every line break
// is a hard break.
func GFMIn(r io.Reader, f *Flags, opts ...Option) (Document, error) {
	return build(func(o lines.Options) ([]lines.Line, error) {
		return lines.FromReader(r, o)
	}, f, lines.GFM, opts)
}

// GFMString is String in the github dialect.
func GFMString(buf []byte, n int, f *Flags, opts ...Option) (Document, error) {
	return build(func(o lines.Options) ([]lines.Line, error) {
		return lines.FromBuffer(buf, n, o)
	}, f, lines.GFM, opts)
}

func build(load func(lines.Options) ([]lines.Line, error), f *Flags, dialect lines.Dialect, opts []Option) (Document, error) {
	d := &document{
		flags: f.Copy(),
		label: uuid.NewString(),
		hooks: callbacks.New(),
		rec:   metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(d)
	}
	d.hooks.Observe(func(k callbacks.Kind) { d.rec.IncCallback(k.String()) })

	start := time.Now()
	ls, err := load(lines.Options{Flags: d.flags, Dialect: dialect, TabStop: d.tabStop})
	d.rec.ObserveStageDuration(metrics.StageAssemble, time.Since(start))
	if err != nil {
		slog.Debug("Document construction failed", logfields.Label(d.label), logfields.Error(err))
		return d, err
	}
	d.rec.ObserveInputLines(len(ls))
	d.lines = d.header(ls)
	slog.Debug("Document assembled",
		logfields.Label(d.label),
		logfields.Lines(len(d.lines)),
		slog.String("dialect", dialect.String()))
	return d, nil
}

// header consumes a leading metadata block unless NOHEADER is set. The
// YAML form needs the frontmatter extension.
func (d *document) header(ls []lines.Line) []lines.Line {
	if d.flags.IsSet(flags.NoHeader) || len(ls) == 0 {
		return ls
	}
	texts := lines.Texts(ls)
	if d.flags.Extension(flags.Frontmatter) {
		if meta, n := frontmatter.YAML(texts); n > 0 {
			d.meta = meta
			return ls[n:]
		}
	}
	if meta, n := frontmatter.Pandoc(texts); n > 0 {
		d.meta = meta
		return ls[n:]
	}
	return ls
}

// Line renders one line of inline markup without block structure.
func Line(text []byte, f *Flags) []byte {
	s := strings.TrimRight(string(text), "\r\n")
	p := span.NewProcessor(f, nil, nil)
	return render.Line(p.Line(s), render.Options{Flags: f})
}

// GenerateLine writes the rendering of one line to w.
func GenerateLine(w io.Writer, text []byte, f *Flags) (int, error) {
	return write(w, Line(text, f))
}

// XML escapes the xml special characters of text.
func XML(text []byte) []byte {
	return render.XML(text)
}

// GenerateXML writes the xml-escaped text to w.
func GenerateXML(w io.Writer, text []byte) (int, error) {
	return write(w, XML(text))
}

// Version returns the fixed version identifier.
func Version() string {
	return version.Identifier()
}

// Initialize builds the process-wide block tag table. It is safe to call
// more than once; documents call it on first use.
func Initialize() {
	block.Initialize()
}

// WithHTML5Tags adds the html5 sectioning elements to the block tag table.
func WithHTML5Tags() {
	block.WithHTML5Tags()
}

// Status maps an error returned by this package onto a status code: zero
// for nil, -1 for render and state failures, -2 for input, -3 for options
// and -4 for internal failures.
func Status(err error) int {
	return errors.Status(err)
}

func write(w io.Writer, b []byte) (int, error) {
	n, err := w.Write(b)
	if err != nil {
		return n, errors.WrapError(err, errors.CategoryRender, "write output").
			WithContext("bytes", len(b)).
			Build()
	}
	return n, nil
}

func unknownFlag(name string) error {
	return errors.OptionError("unknown flag").WithContext("flag", name).Build()
}

func clone(b []byte) []byte {
	return bytes.Clone(b)
}
