package refs

import "git.home.luguber.info/inful/mkd/internal/block"

// Footnote is one footnote definition. Ordinal is assigned when the
// footnote is first referenced and stays zero for unreferenced footnotes.
type Footnote struct {
	Label   string
	Ordinal int
	Content *block.Node
}

// Footnotes maps normalized labels to footnote definitions.
type Footnotes struct {
	byLabel map[string]*Footnote
	order   []*Footnote
}

// NewFootnotes returns an empty footnote table.
func NewFootnotes() *Footnotes {
	return &Footnotes{byLabel: make(map[string]*Footnote)}
}

// Add stores f unless its label is already defined.
func (t *Footnotes) Add(f *Footnote) bool {
	key := Normalize(f.Label)
	if key == "" {
		return false
	}
	if _, dup := t.byLabel[key]; dup {
		return false
	}
	t.byLabel[key] = f
	return true
}

// Lookup finds a footnote without referencing it.
func (t *Footnotes) Lookup(label string) (*Footnote, bool) {
	if t == nil {
		return nil, false
	}
	f, ok := t.byLabel[Normalize(label)]
	return f, ok
}

// Reference finds a footnote and assigns it the next ordinal on its first
// reference.
func (t *Footnotes) Reference(label string) (*Footnote, bool) {
	f, ok := t.Lookup(label)
	if !ok {
		return nil, false
	}
	if f.Ordinal == 0 {
		t.order = append(t.order, f)
		f.Ordinal = len(t.order)
	}
	return f, true
}

// Referenced lists the referenced footnotes by ordinal.
func (t *Footnotes) Referenced() []*Footnote {
	if t == nil {
		return nil
	}
	return t.order
}

// Len returns the number of defined footnotes.
func (t *Footnotes) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byLabel)
}
