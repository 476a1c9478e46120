package block

import (
	"strconv"
	"strings"
)

// Definition is a parsed reference definition line.
type Definition struct {
	Label    string
	URL      string
	Title    string
	HasTitle bool
	Width    int
	Height   int
}

// ParseDefinition parses `[label]: url =WxH "title"`. The size and title are
// optional; the title may also be written as 'title' or (title).
func ParseDefinition(s string) (Definition, bool) {
	var d Definition
	s = strings.TrimLeft(s, " ")
	label, rest, ok := bracketLabel(s)
	if !ok || !strings.HasPrefix(rest, ":") {
		return d, false
	}
	d.Label = label
	rest = strings.TrimLeft(rest[1:], " ")
	if rest == "" {
		return d, false
	}
	if rest[0] == '<' {
		end := strings.IndexByte(rest, '>')
		if end < 0 {
			return d, false
		}
		d.URL, rest = rest[1:end], rest[end+1:]
	} else {
		end := strings.IndexAny(rest, " \t")
		if end < 0 {
			end = len(rest)
		}
		d.URL, rest = rest[:end], rest[end:]
	}
	if d.URL == "" {
		return d, false
	}
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return d, false
	}
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "=") {
		var size string
		if i := strings.IndexAny(rest, " \t"); i >= 0 {
			size, rest = rest[1:i], strings.TrimSpace(rest[i:])
		} else {
			size, rest = rest[1:], ""
		}
		w, h, ok := ParseSize(size)
		if !ok {
			return d, false
		}
		d.Width, d.Height = w, h
	}
	if rest == "" {
		return d, true
	}
	title, ok := ParseTitle(rest)
	if !ok {
		return d, false
	}
	d.Title, d.HasTitle = title, true
	return d, true
}

// ParseTitle accepts a complete "title", 'title' or (title).
func ParseTitle(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return "", false
	}
	var closer byte
	switch s[0] {
	case '"':
		closer = '"'
	case '\'':
		closer = '\''
	case '(':
		closer = ')'
	default:
		return "", false
	}
	if s[len(s)-1] != closer {
		return "", false
	}
	return s[1 : len(s)-1], true
}

// ParseSize parses WxH where either side may be empty.
func ParseSize(s string) (w, h int, ok bool) {
	ws, hs, found := strings.Cut(strings.ToLower(s), "x")
	if !found {
		return 0, 0, false
	}
	if ws != "" {
		n, err := strconv.Atoi(ws)
		if err != nil || n < 0 {
			return 0, 0, false
		}
		w = n
	}
	if hs != "" {
		n, err := strconv.Atoi(hs)
		if err != nil || n < 0 {
			return 0, 0, false
		}
		h = n
	}
	return w, h, true
}

// bracketLabel reads `[label]` at the start of s. Brackets inside the label
// must be escaped.
func bracketLabel(s string) (label, rest string, ok bool) {
	if !strings.HasPrefix(s, "[") {
		return "", s, false
	}
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '[':
			return "", s, false
		case ']':
			label = s[1:i]
			if strings.TrimSpace(label) == "" {
				return "", s, false
			}
			return label, s[i+1:], true
		}
	}
	return "", s, false
}

// footnoteLabel reads `[^label]:` at the start of s.
func footnoteLabel(s string) (label, rest string, ok bool) {
	if !strings.HasPrefix(s, "[^") {
		return "", s, false
	}
	label, rest, ok = bracketLabel(s)
	if !ok || !strings.HasPrefix(rest, ":") {
		return "", s, false
	}
	return label[1:], strings.TrimLeft(rest[1:], " "), label != "^"
}
