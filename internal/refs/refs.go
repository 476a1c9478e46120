// Package refs collects reference definitions, footnote definitions and
// style blocks from a parsed block tree and removes them from the tree.
package refs

import (
	"strings"

	"golang.org/x/text/cases"
)

// Link is one reference definition.
type Link struct {
	Label    string
	URL      string
	Title    string
	HasTitle bool
	Width    int
	Height   int
}

// Normalize folds case and collapses runs of whitespace so labels that
// differ only in case or spacing compare equal.
func Normalize(label string) string {
	return cases.Fold().String(strings.Join(strings.Fields(label), " "))
}

// Table maps normalized labels to definitions. The first definition of a
// label wins.
type Table struct {
	links map[string]*Link
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{links: make(map[string]*Link)}
}

// Add stores l unless its label is already defined. It reports whether l was
// stored.
func (t *Table) Add(l *Link) bool {
	key := Normalize(l.Label)
	if key == "" {
		return false
	}
	if _, dup := t.links[key]; dup {
		return false
	}
	t.links[key] = l
	return true
}

// Lookup finds the definition for label.
func (t *Table) Lookup(label string) (*Link, bool) {
	if t == nil {
		return nil, false
	}
	l, ok := t.links[Normalize(label)]
	return l, ok
}

// Len returns the number of definitions.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.links)
}
