package block

import (
	"strings"
	"sync"

	"golang.org/x/net/html/atom"
)

var (
	tagOnce   sync.Once
	html5Once sync.Once
	tagMu     sync.RWMutex
	tagTable  map[atom.Atom]bool
)

var blockTags = []string{
	"address", "blockquote", "center", "del", "dir", "div", "dl", "fieldset",
	"form", "h1", "h2", "h3", "h4", "h5", "h6", "hr", "iframe", "ins", "map",
	"math", "menu", "noscript", "ol", "p", "pre", "script", "style", "table",
	"ul",
}

var html5Tags = []string{
	"article", "aside", "details", "figcaption", "figure", "footer",
	"header", "hgroup", "main", "nav", "section", "summary",
}

// Initialize builds the process-wide block tag table. It runs once; later
// calls do nothing.
func Initialize() {
	tagOnce.Do(func() {
		t := make(map[atom.Atom]bool, len(blockTags)+len(html5Tags))
		for _, name := range blockTags {
			if a := atom.Lookup([]byte(name)); a != 0 {
				t[a] = true
			}
		}
		tagMu.Lock()
		tagTable = t
		tagMu.Unlock()
	})
}

// WithHTML5Tags adds the html5 sectioning elements to the block tag table.
// It runs once; later calls do nothing.
func WithHTML5Tags() {
	Initialize()
	html5Once.Do(func() {
		tagMu.Lock()
		defer tagMu.Unlock()
		for _, name := range html5Tags {
			if a := atom.Lookup([]byte(name)); a != 0 {
				tagTable[a] = true
			}
		}
	})
}

// IsBlockTag reports whether name starts a raw markup block.
func IsBlockTag(name string) bool {
	Initialize()
	a := atom.Lookup([]byte(strings.ToLower(name)))
	if a == 0 {
		return false
	}
	tagMu.RLock()
	defer tagMu.RUnlock()
	return tagTable[a]
}
