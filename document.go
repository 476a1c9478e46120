package mkd

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/mkd/internal/block"
	"git.home.luguber.info/inful/mkd/internal/callbacks"
	"git.home.luguber.info/inful/mkd/internal/flags"
	"git.home.luguber.info/inful/mkd/internal/foundation/errors"
	"git.home.luguber.info/inful/mkd/internal/frontmatter"
	"git.home.luguber.info/inful/mkd/internal/lines"
	"git.home.luguber.info/inful/mkd/internal/logfields"
	"git.home.luguber.info/inful/mkd/internal/metrics"
	"git.home.luguber.info/inful/mkd/internal/refs"
	"git.home.luguber.info/inful/mkd/internal/render"
	"git.home.luguber.info/inful/mkd/internal/span"
)

// Render targets, used as cache keys and metric labels.
const (
	targetHTML = "html"
	targetTOC  = "toc"
	targetCSS  = "css"
	targetPage = "page"
	targetDump = "dump"
)

type document struct {
	label   string
	flags   *flags.Set
	tabStop int
	lines   []lines.Line
	meta    frontmatter.Meta

	compiled bool
	released bool
	cflags   *flags.Set
	root     *block.Node
	refs     *refs.Result
	spans    span.Index

	base      string
	refPrefix string
	hooks     *callbacks.Registry
	rec       metrics.Recorder

	cache        map[string][]byte
	cacheVersion int
}

func (d *document) Compile(f *Flags) (err error) {
	if d.released {
		return errors.StateError("document was released").WithContext("label", d.label).Build()
	}
	if d.compiled {
		return nil
	}
	cf := d.flags
	if f != nil {
		cf = f.Copy()
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.InternalError("compile failed").
				WithContext("label", d.label).
				WithContext("panic", fmt.Sprint(r)).
				Build()
			slog.Error("Document compile panicked", logfields.Label(d.label), logfields.Error(err))
		}
	}()

	start := time.Now()
	stage := func(name string, t time.Time) {
		d.rec.ObserveStageDuration(name, time.Since(t))
	}

	t := time.Now()
	root := block.Parse(d.lines, cf)
	stage(metrics.StageParse, t)

	t = time.Now()
	res := refs.Collect(root, cf)
	stage(metrics.StageCollect, t)

	t = time.Now()
	idx := span.Process(root, res, cf)
	stage(metrics.StageSpans, t)

	d.root, d.refs, d.spans, d.cflags = root, res, idx, cf
	d.compiled = true

	elapsed := time.Since(start)
	d.rec.ObserveCompileDuration(elapsed)
	slog.Debug("Document compiled",
		logfields.Label(d.label),
		logfields.Lines(len(d.lines)),
		logfields.DurationMS(float64(elapsed.Microseconds())/1000),
		slog.Int("references", res.Links.Len()),
		slog.Int("footnotes", res.Footnotes.Len()))
	return nil
}

func (d *document) Title() (string, bool)  { return metaValue(d.meta.Title) }
func (d *document) Author() (string, bool) { return metaValue(d.meta.Author) }
func (d *document) Date() (string, bool)   { return metaValue(d.meta.Date) }

func metaValue(v *string) (string, bool) {
	if v == nil {
		return "", false
	}
	return *v, true
}

func (d *document) ready() error {
	switch {
	case d.released:
		return errors.StateError("document was released").WithContext("label", d.label).Build()
	case !d.compiled:
		return errors.StateError("document is not compiled").WithContext("label", d.label).Build()
	}
	return nil
}

func (d *document) renderer() *render.Renderer {
	return render.New(d.root, d.spans, d.refs.Footnotes, render.Options{
		Flags:     d.cflags,
		Base:      d.base,
		RefPrefix: d.refPrefix,
		Hooks:     d.hooks,
	})
}

// cached returns the memoized output of a target, building it on first
// use. Installing or clearing a hook invalidates every target.
func (d *document) cached(target string, build func() []byte) ([]byte, error) {
	if err := d.ready(); err != nil {
		d.rec.IncRenderResult(target, metrics.ResultFailed)
		return nil, err
	}
	if v := d.hooks.Version(); v != d.cacheVersion {
		d.cache, d.cacheVersion = nil, v
	}
	if out, ok := d.cache[target]; ok {
		d.rec.IncRenderResult(target, metrics.ResultCached)
		return out, nil
	}
	start := time.Now()
	out := build()
	d.rec.ObserveRenderDuration(target, time.Since(start))
	d.rec.IncRenderResult(target, metrics.ResultSuccess)
	slog.Debug("Rendered", logfields.Label(d.label), logfields.Target(target), logfields.Bytes(len(out)))
	if d.cache == nil {
		d.cache = make(map[string][]byte)
	}
	d.cache[target] = out
	return out, nil
}

func (d *document) html() ([]byte, error) {
	return d.cached(targetHTML, func() []byte { return d.renderer().HTML() })
}

func (d *document) toc() ([]byte, error) {
	return d.cached(targetTOC, func() []byte { return d.renderer().TOC() })
}

func (d *document) css() ([]byte, error) {
	return d.cached(targetCSS, func() []byte { return render.CSS(d.refs.Styles) })
}

func (d *document) Document() ([]byte, error) {
	out, err := d.html()
	return clone(out), err
}

func (d *document) TOC() ([]byte, error) {
	out, err := d.toc()
	return clone(out), err
}

func (d *document) CSS() ([]byte, error) {
	out, err := d.css()
	return clone(out), err
}

func (d *document) WriteHTML(w io.Writer) (int, error) {
	return writeTarget(w, d.html)
}

func (d *document) WriteTOC(w io.Writer) (int, error) {
	return writeTarget(w, d.toc)
}

func (d *document) WriteCSS(w io.Writer) (int, error) {
	return writeTarget(w, d.css)
}

func (d *document) WriteXHTMLPage(w io.Writer) (int, error) {
	return writeTarget(w, func() ([]byte, error) {
		body, err := d.html()
		if err != nil {
			return nil, err
		}
		css, err := d.css()
		if err != nil {
			return nil, err
		}
		return d.cached(targetPage, func() []byte { return render.Page(d.meta, css, body) })
	})
}

func (d *document) Dump(w io.Writer, title string) (int, error) {
	if err := d.ready(); err != nil {
		d.rec.IncRenderResult(targetDump, metrics.ResultFailed)
		return 0, err
	}
	return write(w, d.renderer().Dump(title))
}

func writeTarget(w io.Writer, get func() ([]byte, error)) (int, error) {
	out, err := get()
	if err != nil {
		return 0, err
	}
	return write(w, out)
}

func (d *document) SetBase(base string) {
	d.base = base
	d.cache = nil
}

func (d *document) SetRefPrefix(prefix string) {
	d.refPrefix = prefix
	d.cache = nil
}

func (d *document) SetRecorder(r Recorder) {
	d.rec = metrics.OrNoop(r)
}

func (d *document) Label() string { return d.label }

func (d *document) Cleanup() {
	if d.released {
		return
	}
	d.released = true
	d.lines, d.root, d.refs, d.spans, d.cache = nil, nil, nil, nil, nil
	d.hooks.Reset()
	slog.Debug("Document released", logfields.Label(d.label))
}
