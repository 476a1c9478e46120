package span

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"git.home.luguber.info/inful/mkd/internal/walk"
)

// smarten replaces straight quotes, dashes, ellipses, symbols and simple
// fractions in text spans with typographic entities. The preceding
// character is carried across span boundaries so quotes next to markup
// still pick the right side.
func smarten(root *Span) {
	prev := ' '
	repl := make(map[*Span][]*Span)
	walk.Walk(root, Kids, func(s *Span, entering bool) walk.Result {
		if !entering || s == root {
			return walk.Continue
		}
		switch s.Kind {
		case Text:
			out, last := smartText(s.Text, prev)
			if out != nil {
				repl[s] = out
			}
			prev = last
		case Code, Math:
			if s.Text != "" {
				prev, _ = utf8.DecodeLastRuneInString(s.Text)
			}
		case LineBreak:
			prev = ' '
		case Entity, Autolink, FootnoteRef:
			prev = 'x'
		case Superscript:
			prev = 'x'
			return walk.Skip
		}
		return walk.Continue
	})
	if len(repl) == 0 {
		return
	}
	walk.Each(root, Kids, func(s *Span) {
		changed := false
		for _, c := range s.Children {
			if _, ok := repl[c]; ok {
				changed = true
				break
			}
		}
		if !changed {
			return
		}
		kids := make([]*Span, 0, len(s.Children))
		for _, c := range s.Children {
			if r, ok := repl[c]; ok {
				kids = append(kids, r...)
			} else {
				kids = append(kids, c)
			}
		}
		s.Children = kids
	})
}

// smartText returns the replacement spans for t, or nil when nothing
// changed, along with the last character seen.
func smartText(t string, prev rune) ([]*Span, rune) {
	var out []*Span
	start := 0
	for i := 0; i < len(t); {
		if n, ent := smartAt(t, i, prev); n > 0 {
			if i > start {
				out = append(out, &Span{Kind: Text, Text: t[start:i]})
			}
			out = append(out, &Span{Kind: Entity, Text: ent})
			prev = rune(t[i+n-1])
			i += n
			start = i
			continue
		}
		r, size := utf8.DecodeRuneInString(t[i:])
		prev = r
		i += size
	}
	if out == nil {
		return nil, prev
	}
	if start < len(t) {
		out = append(out, &Span{Kind: Text, Text: t[start:]})
	}
	return out, prev
}

var symbols = []struct{ src, ent string }{
	{"(c)", "&copy;"},
	{"(r)", "&reg;"},
	{"(tm)", "&trade;"},
}

var fractions = []struct{ src, ent string }{
	{"1/4", "&frac14;"},
	{"1/2", "&frac12;"},
	{"3/4", "&frac34;"},
}

func smartAt(t string, i int, prev rune) (int, string) {
	s := t[i:]
	switch s[0] {
	case '-':
		if strings.HasPrefix(s, "---") {
			return 3, "&mdash;"
		}
		if strings.HasPrefix(s, "--") {
			return 2, "&ndash;"
		}
	case '.':
		if strings.HasPrefix(s, "...") {
			return 3, "&hellip;"
		}
		if strings.HasPrefix(s, ". . .") {
			return 5, "&hellip;"
		}
	case '(':
		for _, sym := range symbols {
			if len(s) >= len(sym.src) && strings.EqualFold(s[:len(sym.src)], sym.src) {
				return len(sym.src), sym.ent
			}
		}
	case '1', '3':
		if unicode.IsDigit(prev) {
			break
		}
		for _, f := range fractions {
			if strings.HasPrefix(s, f.src) && (len(s) == 3 || !isAlnum(s[3]) && s[3] != '/') {
				return 3, f.ent
			}
		}
	case '`':
		if strings.HasPrefix(s, "``") {
			return 2, "&ldquo;"
		}
	case '\'':
		if strings.HasPrefix(s, "''") {
			return 2, "&rdquo;"
		}
		if isWordRune(prev) {
			return 1, "&rsquo;"
		}
		if opensQuote(prev) && len(s) > 1 && !isSpace(s[1]) {
			return 1, "&lsquo;"
		}
		return 1, "&rsquo;"
	case '"':
		if opensQuote(prev) && len(s) > 1 && !isSpace(s[1]) {
			return 1, "&ldquo;"
		}
		return 1, "&rdquo;"
	}
	return 0, ""
}

func opensQuote(prev rune) bool {
	return unicode.IsSpace(prev) || strings.ContainsRune("([{-", prev)
}
