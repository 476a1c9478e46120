package flags

import (
	"maps"
	"sort"
)

// Set is a collection of active flags. A nil *Set behaves as an empty set for
// all queries.
type Set struct {
	bits uint64
	ext  map[Extension]bool
}

const validMask = uint64(1)<<NumFlags - 1

// New returns an empty set.
func New() *Set {
	return &Set{}
}

// Of returns a set with the given flags active.
func Of(fs ...Flag) *Set {
	s := New()
	for _, f := range fs {
		s.Set(f)
	}
	return s
}

// FromBits returns a set initialized from a raw bit-mask.
func FromBits(mask uint64) *Set {
	s := New()
	s.SetBits(mask)
	return s
}

// Copy returns a deep copy. Copying nil yields an empty set.
func (s *Set) Copy() *Set {
	c := New()
	if s == nil {
		return c
	}
	c.bits = s.bits
	if len(s.ext) > 0 {
		c.ext = maps.Clone(s.ext)
	}
	return c
}

// Set activates f. Unknown flags are ignored.
func (s *Set) Set(f Flag) {
	if f.Valid() {
		s.bits |= 1 << f
	}
}

// Clear deactivates f.
func (s *Set) Clear(f Flag) {
	if f.Valid() {
		s.bits &^= 1 << f
	}
}

// IsSet reports whether f is active.
func (s *Set) IsSet(f Flag) bool {
	if s == nil || !f.Valid() {
		return false
	}
	return s.bits&(1<<f) != 0
}

// Bits exports the built-in flags as a raw bit-mask. Extensions are not part
// of the mask.
func (s *Set) Bits() uint64 {
	if s == nil {
		return 0
	}
	return s.bits
}

// SetBits activates every flag whose bit is set in mask. Bits beyond the
// known flags are dropped.
func (s *Set) SetBits(mask uint64) {
	s.bits |= mask & validMask
}

// Reset clears all built-in flags and extensions.
func (s *Set) Reset() {
	s.bits = 0
	s.ext = nil
}

// Extension reports whether the named extension is active.
func (s *Set) Extension(name Extension) bool {
	if s == nil {
		return false
	}
	return s.ext[name]
}

// SetExtension turns the named extension on or off. It reports false for
// names that are not registered.
func (s *Set) SetExtension(name Extension, on bool) bool {
	if !KnownExtension(name) {
		return false
	}
	if !on {
		delete(s.ext, name)
		return true
	}
	if s.ext == nil {
		s.ext = make(map[Extension]bool)
	}
	s.ext[name] = true
	return true
}

// Active lists the active built-in flags in enumeration order.
func (s *Set) Active() []Flag {
	var out []Flag
	for f := Flag(0); f < NumFlags; f++ {
		if s.IsSet(f) {
			out = append(out, f)
		}
	}
	return out
}

// ActiveExtensions lists the active extensions sorted by name.
func (s *Set) ActiveExtensions() []Extension {
	if s == nil {
		return nil
	}
	out := make([]Extension, 0, len(s.ext))
	for name := range s.ext {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Equal reports whether both sets have the same flags and extensions.
func (s *Set) Equal(o *Set) bool {
	if s.Bits() != o.Bits() {
		return false
	}
	a, b := s.ActiveExtensions(), o.ActiveExtensions()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
