// Package frontmatter extracts document metadata (title, author, date) from
// the leading lines of a document. Two header forms are recognized: the
// pandoc form (up to three lines starting with '%') and a YAML block
// delimited by "---" lines.
package frontmatter

import (
	"errors"
	"strings"

	"gopkg.in/yaml.v3"
)

// Meta holds the optional header fields. A nil pointer means the field was
// not present.
type Meta struct {
	Title  *string
	Author *string
	Date   *string
}

// Empty reports whether no field is present.
func (m Meta) Empty() bool {
	return m.Title == nil && m.Author == nil && m.Date == nil
}

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Pandoc reads a pandoc-style header from the first lines. It returns the
// metadata and the number of lines consumed; consumed is zero when the first
// line does not start with '%'.
func Pandoc(lines []string) (Meta, int) {
	var meta Meta
	n := 0
	fields := []**string{&meta.Title, &meta.Author, &meta.Date}
	for n < len(lines) && n < len(fields) && strings.HasPrefix(lines[n], "%") {
		if v := strings.TrimSpace(lines[n][1:]); v != "" {
			*fields[n] = &v
		}
		n++
	}
	return meta, n
}

// Split locates a YAML block delimited by "---" lines at the start of lines.
// It returns the raw YAML text and the number of lines consumed, including
// both delimiters.
func Split(lines []string) (raw string, consumed int, had bool, err error) {
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t") != "---" {
		return "", 0, false, nil
	}
	for i := 1; i < len(lines); i++ {
		switch strings.TrimRight(lines[i], " \t") {
		case "---", "...":
			return strings.Join(lines[1:i], "\n"), i + 1, true, nil
		}
	}
	return "", 0, false, ErrMissingClosingDelimiter
}

type yamlHeader struct {
	Title  yaml.Node `yaml:"title"`
	Author yaml.Node `yaml:"author"`
	Date   yaml.Node `yaml:"date"`
}

// ParseYAML decodes the title, author and date keys of a YAML header.
// Sequence values are joined with ", ". Other keys are ignored.
func ParseYAML(raw string) (Meta, error) {
	var h yamlHeader
	if err := yaml.Unmarshal([]byte(raw), &h); err != nil {
		return Meta{}, err
	}
	return Meta{
		Title:  nodeText(&h.Title),
		Author: nodeText(&h.Author),
		Date:   nodeText(&h.Date),
	}, nil
}

// YAML combines Split and ParseYAML. A malformed or unterminated block is
// reported as not present so the lines stay part of the body.
func YAML(lines []string) (Meta, int) {
	raw, n, had, err := Split(lines)
	if err != nil || !had {
		return Meta{}, 0
	}
	meta, err := ParseYAML(raw)
	if err != nil {
		return Meta{}, 0
	}
	return meta, n
}

func nodeText(n *yaml.Node) *string {
	var s string
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil
		}
		s = n.Value
	case yaml.SequenceNode:
		parts := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			if c.Kind == yaml.ScalarNode {
				parts = append(parts, c.Value)
			}
		}
		s = strings.Join(parts, ", ")
	default:
		return nil
	}
	return &s
}
