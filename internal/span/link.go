package span

import (
	"strings"

	"git.home.luguber.info/inful/mkd/internal/block"
	"git.home.luguber.info/inful/mkd/internal/flags"
)

// Protocols lists the pseudo-protocols a link destination may start with.
var Protocols = []string{"abbr", "class", "id", "lang", "raw"}

var safeSchemes = []string{"http", "https", "ftp", "news", "mailto"}

// SafeURL reports whether url is relative or uses a well-known scheme.
func SafeURL(url string) bool {
	c := strings.IndexByte(url, ':')
	if c < 0 {
		return true
	}
	if s := strings.IndexAny(url, "/?#"); s >= 0 && s < c {
		return true
	}
	for _, scheme := range safeSchemes {
		if strings.EqualFold(url[:c], scheme) {
			return true
		}
	}
	return false
}

func pseudoProtocol(url string) (proto, rest string, ok bool) {
	for _, p := range Protocols {
		if len(url) > len(p) && url[len(p)] == ':' && strings.EqualFold(url[:len(p)], p) {
			return p, url[len(p)+1:], true
		}
	}
	return "", url, false
}

type destination struct {
	url      string
	title    string
	hasTitle bool
	w, h     int
}

// target reads what follows the `]` at s[j:]: an inline destination, a
// full or collapsed reference, or nothing (a shortcut reference to text).
func (p *Processor) target(s string, j int, text string, image bool) (*Span, int, bool) {
	kind := Link
	if image {
		kind = Image
	}
	if j < len(s) && s[j] == '(' {
		if d, end, ok := inlineDestination(s, j); ok {
			sp := &Span{Kind: kind, URL: d.url, Title: d.title, HasTitle: d.hasTitle, Width: d.w, Height: d.h}
			if !p.resolveProtocol(sp) && p.flags.IsSet(flags.SafeLink) && !SafeURL(sp.URL) {
				return nil, 0, false
			}
			return sp, end, true
		}
	}

	label, end := text, j
	k := j
	if k+1 < len(s) && s[k] == ' ' && s[k+1] == '[' {
		k++
	}
	if k < len(s) && s[k] == '[' {
		if c := strings.IndexByte(s[k+1:], ']'); c >= 0 {
			if l := s[k+1 : k+1+c]; strings.TrimSpace(l) != "" {
				label = l
			}
			end = k + c + 2
		}
	}
	ref, ok := p.links.Lookup(label)
	if !ok {
		return nil, 0, false
	}
	sp := &Span{Kind: kind, Ref: ref}
	if !image && !p.flags.IsSet(flags.NoExt) {
		if proto, rest, ok := pseudoProtocol(ref.URL); ok {
			sp.Ref, sp.Proto = nil, proto
			sp.URL, sp.Title, sp.HasTitle = rest, ref.Title, ref.HasTitle
			return sp, end, true
		}
	}
	if p.flags.IsSet(flags.SafeLink) && !SafeURL(ref.URL) {
		return nil, 0, false
	}
	return sp, end, true
}

// resolveProtocol moves a pseudo-protocol out of a link url. It reports
// whether one was found.
func (p *Processor) resolveProtocol(sp *Span) bool {
	if sp.Kind != Link || p.flags.IsSet(flags.NoExt) {
		return false
	}
	proto, rest, ok := pseudoProtocol(sp.URL)
	if ok {
		sp.Proto, sp.URL = proto, rest
	}
	return ok
}

// inlineDestination parses `(url =WxH "title")` starting at s[j] == '('.
func inlineDestination(s string, j int) (destination, int, bool) {
	var d destination
	k := skipSpace(s, j+1)
	if k < len(s) && s[k] == '<' {
		e := strings.IndexAny(s[k:], ">\n")
		if e < 0 || s[k+e] != '>' {
			return d, 0, false
		}
		d.url = s[k+1 : k+e]
		k += e + 1
	} else {
		start, depth := k, 0
	url:
		for ; k < len(s); k++ {
			switch s[k] {
			case '\\':
				k++
			case ' ', '\t', '\n':
				break url
			case '(':
				depth++
			case ')':
				if depth == 0 {
					break url
				}
				depth--
			}
		}
		if k > len(s) {
			k = len(s)
		}
		d.url = unescape(s[start:k])
	}

	k = skipSpace(s, k)
	if k < len(s) && s[k] == '=' {
		e := k + 1
		for e < len(s) && !isSpace(s[e]) && s[e] != ')' {
			e++
		}
		w, h, ok := block.ParseSize(s[k+1 : e])
		if !ok {
			return d, 0, false
		}
		d.w, d.h = w, h
		k = skipSpace(s, e)
	}

	if k < len(s) && (s[k] == '"' || s[k] == '\'' || s[k] == '(') {
		closer := s[k]
		if closer == '(' {
			closer = ')'
		}
		found := false
		for e := k + 1; e < len(s); e++ {
			if s[e] != closer {
				continue
			}
			if r := skipSpace(s, e+1); r < len(s) && s[r] == ')' {
				d.title, d.hasTitle = unescape(s[k+1:e]), true
				k, found = r, true
				break
			}
		}
		if !found {
			return d, 0, false
		}
	}
	if k >= len(s) || s[k] != ')' {
		return d, 0, false
	}
	return d, k + 1, true
}
