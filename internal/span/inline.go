package span

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"git.home.luguber.info/inful/mkd/internal/flags"
)

// item is one entry of the flat list built while scanning. Delimiter runs
// keep their character and remaining length until the emphasis pass.
type item struct {
	span        *Span
	delim       byte
	n           int
	open, close bool
}

// bracket is an unmatched `[` or `![` waiting for its `]`.
type bracket struct {
	idx    int
	start  int
	image  bool
	active bool
}

type scanner struct {
	p         *Processor
	s         string
	breaks    map[int]bool
	items     []*item
	brackets  []bracket
	textStart int

	// seeks memoizes forward searches so repeated unmatched openers do not
	// rescan the rest of the text.
	seeks map[string]seek
	// parens maps the offset of every '(' to its matching ')', or -1.
	parens map[int]int
}

// seek records that the first occurrence of a needle at or after from is
// at (-1 when there is none).
type seek struct{ from, at int }

// index returns the offset of the first occurrence of needle at or after
// from, or -1.
func (sc *scanner) index(needle string, from int) int {
	if m, ok := sc.seeks[needle]; ok && from >= m.from && (m.at < 0 || from <= m.at) {
		return m.at
	}
	at := strings.Index(sc.s[from:], needle)
	if at >= 0 {
		at += from
	}
	if sc.seeks == nil {
		sc.seeks = make(map[string]seek)
	}
	sc.seeks[needle] = seek{from: from, at: at}
	return at
}

// closeParen returns the offset of the ')' balancing the '(' at i, or -1.
func (sc *scanner) closeParen(i int) int {
	if sc.parens == nil {
		sc.parens = make(map[int]int)
		var open []int
		for k := 0; k < len(sc.s); k++ {
			switch sc.s[k] {
			case '(':
				open = append(open, k)
				sc.parens[k] = -1
			case ')':
				if len(open) > 0 {
					sc.parens[open[len(open)-1]] = k
					open = open[:len(open)-1]
				}
			}
		}
	}
	if k, ok := sc.parens[i]; ok {
		return k
	}
	return -1
}

// inline turns s into spans. breaks holds the offsets of newlines that are
// hard line breaks.
func (p *Processor) inline(s string, breaks map[int]bool) []*Span {
	sc := &scanner{p: p, s: s, breaks: breaks}
	for i := 0; i < len(s); {
		i = sc.step(i)
	}
	sc.flush(len(s))
	return p.emph(sc.items)
}

func (sc *scanner) flush(end int) {
	if end > sc.textStart {
		sc.items = append(sc.items, &item{span: &Span{Kind: Text, Text: sc.s[sc.textStart:end]}})
	}
	sc.textStart = end
}

// emit adds a finished span covering s[start:next].
func (sc *scanner) emit(s *Span, start, next int) {
	sc.flush(start)
	sc.items = append(sc.items, &item{span: s})
	sc.textStart = next
}

// step handles the byte at i and returns the offset to continue from.
// Bytes that start nothing stay in the pending text run.
func (sc *scanner) step(i int) int {
	s, f := sc.s, sc.p.flags
	switch c := s[i]; c {
	case '\\':
		if i+1 >= len(s) {
			break
		}
		if f.IsSet(flags.Latex) && (s[i+1] == '(' || s[i+1] == '[') {
			if n := sc.math(i); n > 0 {
				return n
			}
		}
		if isEscapable(s[i+1]) {
			sc.flush(i)
			sc.textStart = i + 1
			return i + 2
		}
	case '`':
		return sc.code(i)
	case '<':
		if n := sc.angle(i); n > 0 {
			return n
		}
	case '&':
		if n := entityAt(s[i:]); n > 0 {
			sc.emit(&Span{Kind: Entity, Text: s[i : i+n]}, i, i+n)
			return i + n
		}
	case '[':
		if !f.IsSet(flags.NoLinks) {
			return sc.openBracket(i, false)
		}
	case '!':
		if i+1 < len(s) && s[i+1] == '[' && !f.IsSet(flags.NoImage) {
			return sc.openBracket(i, true)
		}
	case ']':
		if n := sc.closeBracket(i); n > 0 {
			return n
		}
	case '*', '_':
		return sc.delimiter(i, c)
	case '~':
		n := runLen(s[i:], '~')
		if n == 2 && !f.IsSet(flags.NoStrikethrough) {
			return sc.delimiter(i, c)
		}
		return i + n
	case '^':
		if n := sc.superscript(i); n > 0 {
			return n
		}
	case '$':
		if f.IsSet(flags.Latex) {
			if n := sc.math(i); n > 0 {
				return n
			}
		}
	case '\n':
		if sc.breaks[i] {
			sc.emit(&Span{Kind: LineBreak}, i, i+1)
			return i + 1
		}
	case 'h', 'f', 'n':
		if f.IsSet(flags.Autolink) {
			if n := sc.bareURL(i); n > 0 {
				return n
			}
		}
	}
	return i + 1
}

func (sc *scanner) code(i int) int {
	s := sc.s
	n := runLen(s[i:], '`')
	for j := i + n; j < len(s); {
		k := strings.IndexByte(s[j:], '`')
		if k < 0 {
			break
		}
		k += j
		m := runLen(s[k:], '`')
		if m == n {
			body := strings.Trim(s[i+n:k], " \t\n")
			sc.emit(&Span{Kind: Code, Text: body}, i, k+m)
			return k + m
		}
		j = k + m
	}
	return i + n
}

func (sc *scanner) delimiter(i int, c byte) int {
	s := sc.s
	n := runLen(s[i:], c)
	before, after := ' ', ' '
	if i > 0 {
		before, _ = utf8.DecodeLastRuneInString(s[:i])
	}
	if i+n < len(s) {
		after, _ = utf8.DecodeRuneInString(s[i+n:])
	}
	open, closing := !unicode.IsSpace(after), !unicode.IsSpace(before)
	if c == '_' && !sc.p.flags.IsSet(flags.Strict) {
		if isWordRune(before) {
			open = false
		}
		if isWordRune(after) {
			closing = false
		}
	}
	sc.flush(i)
	sc.items = append(sc.items, &item{span: &Span{Kind: Text}, delim: c, n: n, open: open, close: closing})
	sc.textStart = i + n
	return i + n
}

func (sc *scanner) openBracket(i int, image bool) int {
	s := sc.s
	if !image && i+1 < len(s) && s[i+1] == '^' && sc.p.flags.IsSet(flags.ExtraFootnote) {
		if n := sc.footnoteRef(i); n > 0 {
			return n
		}
	}
	w := 1
	if image {
		w = 2
	}
	sc.flush(i)
	sc.items = append(sc.items, &item{span: &Span{Kind: Text, Text: s[i : i+w]}})
	sc.brackets = append(sc.brackets, bracket{idx: len(sc.items) - 1, start: i + w, image: image, active: true})
	sc.textStart = i + w
	return i + w
}

func (sc *scanner) footnoteRef(i int) int {
	end := sc.index("]", i)
	if end < 0 {
		return 0
	}
	end -= i
	label := sc.s[i+2 : i+end]
	if strings.TrimSpace(label) == "" || strings.ContainsAny(label, "[\n") {
		return 0
	}
	note, ok := sc.p.notes.Reference(label)
	if !ok {
		return 0
	}
	sc.emit(&Span{Kind: FootnoteRef, Note: note}, i, i+end+1)
	return i + end + 1
}

func (sc *scanner) closeBracket(i int) int {
	if len(sc.brackets) == 0 {
		return 0
	}
	b := sc.brackets[len(sc.brackets)-1]
	sc.brackets = sc.brackets[:len(sc.brackets)-1]
	if !b.active {
		return 0
	}
	link, end, ok := sc.p.target(sc.s, i+1, sc.s[b.start:i], b.image)
	if !ok {
		return 0
	}
	sc.flush(i)
	link.Children = sc.p.emph(sc.items[b.idx+1:])
	sc.items = append(sc.items[:b.idx], &item{span: link})
	sc.textStart = end
	if !b.image {
		for k := range sc.brackets {
			if !sc.brackets[k].image {
				sc.brackets[k].active = false
			}
		}
	}
	return end
}

// inLinkText reports whether an unmatched link opener is pending.
func (sc *scanner) inLinkText() bool {
	for _, b := range sc.brackets {
		if b.active && !b.image {
			return true
		}
	}
	return false
}

func (sc *scanner) angle(i int) int {
	s, f := sc.s, sc.p.flags
	e := sc.index(">", i)
	if e < 0 {
		return 0
	}
	if strings.HasPrefix(s[i:], "<!--") && sc.index("-->", i+4) < 0 {
		return 0
	}
	if e -= i; e > 1 && !f.IsSet(flags.NoLinks) {
		body := s[i+1 : i+e]
		if url, text, ok := angleLink(body); ok && (!f.IsSet(flags.SafeLink) || SafeURL(url)) {
			sc.emit(&Span{Kind: Autolink, Text: text, URL: url}, i, i+e+1)
			return i + e + 1
		}
	}
	n, name := rawTag(s[i:], f.IsSet(flags.GithubTags))
	if n == 0 {
		return 0
	}
	kind := RawHTML
	name = strings.ToLower(name)
	if f.IsSet(flags.NoHTML) ||
		(name == "a" && f.IsSet(flags.NoLinks)) ||
		(name == "img" && f.IsSet(flags.NoImage)) {
		kind = Text
	}
	sc.emit(&Span{Kind: kind, Text: s[i : i+n]}, i, i+n)
	return i + n
}

func (sc *scanner) superscript(i int) int {
	f, s := sc.p.flags, sc.s
	if i == 0 || f.IsSet(flags.NoSuperscript) || f.IsSet(flags.Strict) {
		return 0
	}
	if prev, _ := utf8.DecodeLastRuneInString(s[:i]); !isWordRune(prev) && prev != ')' {
		return 0
	}
	var body string
	end := 0
	if i+1 < len(s) && s[i+1] == '(' {
		if k := sc.closeParen(i + 1); k > 0 {
			body, end = s[i+2:k], k+1
		}
	} else {
		k := i + 1
		for k < len(s) && isAlnum(s[k]) {
			k++
		}
		body, end = s[i+1:k], k
	}
	if body == "" {
		return 0
	}
	sc.emit(&Span{Kind: Superscript, Children: []*Span{{Kind: Text, Text: body}}}, i, end)
	return end
}

func (sc *scanner) math(i int) int {
	s := sc.s
	var closer string
	switch {
	case strings.HasPrefix(s[i:], "$$"):
		closer = "$$"
	case strings.HasPrefix(s[i:], `\(`):
		closer = `\)`
	case strings.HasPrefix(s[i:], `\[`):
		closer = `\]`
	default:
		return 0
	}
	e := sc.index(closer, i+2)
	if e < 0 {
		return 0
	}
	end := e + 2
	sc.emit(&Span{Kind: Math, Text: s[i:end]}, i, end)
	return end
}

var bareSchemes = []string{"http://", "https://", "ftp://", "news:"}

func (sc *scanner) bareURL(i int) int {
	s := sc.s
	if i > 0 && (isAlnum(s[i-1]) || s[i-1] == '/' || s[i-1] == ':') {
		return 0
	}
	if sc.inLinkText() {
		return 0
	}
	scheme := ""
	for _, p := range bareSchemes {
		if strings.HasPrefix(s[i:], p) {
			scheme = p
			break
		}
	}
	if scheme == "" {
		return 0
	}
	e := i
	for e < len(s) && !isSpace(s[e]) && s[e] != '<' && s[e] != '>' && s[e] != '"' {
		e++
	}
	for e > i && strings.IndexByte(".,:;!?'\")", s[e-1]) >= 0 {
		if s[e-1] == ')' && strings.Count(s[i:e], "(") >= strings.Count(s[i:e], ")") {
			break
		}
		e--
	}
	if e-i <= len(scheme) {
		return 0
	}
	url := s[i:e]
	sc.emit(&Span{Kind: Autolink, Text: url, URL: url}, i, e)
	return e
}

// rawTag reports the length and element name of an html tag or comment at
// the start of s, or 0 when s does not start one.
func rawTag(s string, github bool) (int, string) {
	if strings.HasPrefix(s, "<!--") {
		e := strings.Index(s[4:], "-->")
		if e < 0 {
			return 0, ""
		}
		return 4 + e + 3, "!--"
	}
	k := 1
	if k < len(s) && s[k] == '/' {
		k++
	}
	start := k
	if k >= len(s) || !isLetter(s[k]) {
		return 0, ""
	}
	for k < len(s) && (isAlnum(s[k]) || github && (s[k] == '-' || s[k] == '_')) {
		k++
	}
	name := s[start:k]
	if k >= len(s) || strings.IndexByte(" \t\n/>", s[k]) < 0 {
		return 0, ""
	}
	var quote byte
	for ; k < len(s); k++ {
		c := s[k]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return k + 1, name
		case c == '<':
			return 0, ""
		}
	}
	return 0, ""
}

// angleLink recognizes the body of <scheme:rest> and <user@host>.
func angleLink(body string) (url, text string, ok bool) {
	if strings.ContainsAny(body, " \t\n<") {
		return "", "", false
	}
	if c := strings.IndexByte(body, ':'); c > 0 && c < len(body)-1 && validScheme(body[:c]) {
		if strings.EqualFold(body[:c], "mailto") {
			return body, body[c+1:], true
		}
		return body, body, true
	}
	at := strings.IndexByte(body, '@')
	if at > 0 && strings.Contains(body[at+1:], ".") && !strings.HasSuffix(body, ".") {
		return "mailto:" + body, body, true
	}
	return "", "", false
}

func validScheme(s string) bool {
	if s == "" || !isLetter(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isAlnum(s[i]) && s[i] != '+' && s[i] != '.' && s[i] != '-' {
			return false
		}
	}
	return true
}

const escapable = "\\`*_{}[]()#+-.!<>|~^\"'$%:=&"

func isEscapable(c byte) bool { return strings.IndexByte(escapable, c) >= 0 }

// unescape drops the backslash in front of escapable punctuation.
func unescape(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && isEscapable(s[i+1]) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func runLen(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

func isAlnum(c byte) bool { return isLetter(c) || c >= '0' && c <= '9' }

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' }

func isWordRune(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}
