// Package callbacks holds the per-document hooks that customize emitted
// URLs, anchor ids, code blocks and link attributes.
//
// Every hook is a transform paired with an optional release. A transform may
// decline (the default rendering is used) or produce a value; a produced
// value is handed to the emitter and then released exactly once, after the
// emitter returned.
package callbacks

// Kind selects one hook slot.
type Kind int

const (
	URL Kind = iota
	Anchor
	Code
	LinkAttr

	numKinds
)

var kindNames = [numKinds]string{"url", "anchor", "code", "linkattr"}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "unknown"
	}
	return kindNames[k]
}

// Call is the input of a transform.
type Call struct {
	// Text is the original value: the url, the header text, the code block
	// contents or the link url.
	Text string
	// Lang is the verbatim language tag of a code block.
	Lang string
	// Data is the opaque context registered with the hook.
	Data any
}

// Transform produces a replacement value. It reports false to keep the
// default output.
type Transform func(Call) (string, bool)

// Release is invoked once for every value a Transform produced.
type Release func(value string, data any)

// Hook pairs a transform with its release and user context.
type Hook struct {
	Transform Transform
	Release   Release
	Data      any
}

// Registry stores one hook per kind.
type Registry struct {
	hooks   [numKinds]*Hook
	observe func(Kind)
	version int
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{}
}

// Set installs h for kind. A hook without a transform clears the slot.
func (r *Registry) Set(kind Kind, h Hook) {
	if kind < 0 || kind >= numKinds {
		return
	}
	r.version++
	if h.Transform == nil {
		r.hooks[kind] = nil
		return
	}
	r.hooks[kind] = &h
}

// Has reports whether a hook is installed for kind.
func (r *Registry) Has(kind Kind) bool {
	if r == nil || kind < 0 || kind >= numKinds {
		return false
	}
	return r.hooks[kind] != nil
}

// Version changes whenever a hook is installed or cleared. Renderers use it
// to invalidate cached output.
func (r *Registry) Version() int {
	if r == nil {
		return 0
	}
	return r.version
}

// Observe installs a function called on every transform invocation.
func (r *Registry) Observe(fn func(Kind)) {
	r.observe = fn
}

// Reset clears every hook.
func (r *Registry) Reset() {
	if r == nil {
		return
	}
	r.hooks = [numKinds]*Hook{}
	r.version++
}

// Apply runs the hook for kind. When the transform produces a value, emit
// receives it and the release runs afterwards, even if emit panics. Apply
// reports whether a value was produced; when it reports false the caller
// writes its default output.
func (r *Registry) Apply(kind Kind, call Call, emit func(string)) bool {
	if !r.Has(kind) {
		return false
	}
	h := r.hooks[kind]
	call.Data = h.Data
	if r.observe != nil {
		r.observe(kind)
	}
	value, ok := h.Transform(call)
	if !ok {
		return false
	}
	if h.Release != nil {
		defer h.Release(value, h.Data)
	}
	emit(value)
	return true
}
