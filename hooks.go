package mkd

import (
	"git.home.luguber.info/inful/mkd/internal/callbacks"
	"git.home.luguber.info/inful/mkd/internal/metrics"
)

// Call is the input of a hook transform.
type Call = callbacks.Call

// Transform produces a replacement value for a url, anchor, code block or
// link attribute list. It reports false to keep the default output.
type Transform = callbacks.Transform

// Release is called exactly once for every value a Transform produced,
// after the value has been copied into the output.
type Release = callbacks.Release

// Recorder receives compile and render metrics.
type Recorder = metrics.Recorder

// ResultLabel classifies render outcomes for a Recorder.
type ResultLabel = metrics.ResultLabel

// Option configures a document at construction.
type Option func(*document)

// WithTabStop sets the tab width used when assembling lines. The TABSTOP
// flag overrides it with 4.
func WithTabStop(n int) Option {
	return func(d *document) { d.tabStop = n }
}

// WithLabel names the document in logs. The default is a random uuid.
func WithLabel(label string) Option {
	return func(d *document) { d.label = label }
}

// WithRecorder installs a metrics recorder before the input is assembled.
func WithRecorder(r Recorder) Option {
	return func(d *document) { d.rec = metrics.OrNoop(r) }
}

func (d *document) SetURLHook(t Transform, r Release, data any) {
	d.hooks.Set(callbacks.URL, callbacks.Hook{Transform: t, Release: r, Data: data})
}

func (d *document) SetAnchorHook(t Transform, r Release, data any) {
	d.hooks.Set(callbacks.Anchor, callbacks.Hook{Transform: t, Release: r, Data: data})
}

func (d *document) SetCodeHook(t Transform, r Release, data any) {
	d.hooks.Set(callbacks.Code, callbacks.Hook{Transform: t, Release: r, Data: data})
}

func (d *document) SetLinkAttrHook(t Transform, r Release, data any) {
	d.hooks.Set(callbacks.LinkAttr, callbacks.Hook{Transform: t, Release: r, Data: data})
}
