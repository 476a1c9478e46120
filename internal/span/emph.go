package span

import "strings"

// emph matches delimiter runs in items and returns the resulting spans.
// A closing run pairs with the nearest opener of the same character that is
// at least as long, falling back to the nearest opener of that character.
// Delimiters left inside a matched range and unmatched runs become text.
func (p *Processor) emph(items []*item) []*Span {
	var out []*item
	var openers []int
	for _, it := range items {
		if it.delim == 0 {
			out = append(out, it)
			continue
		}
		for it.close && it.n > 0 {
			k := findOpener(out, openers, it)
			if k < 0 {
				break
			}
			oi := openers[k]
			op := out[oi]
			use := 1
			switch {
			case it.delim == '~':
				use = 2
			case op.n >= 3 && it.n >= 3:
				use = 3
			case op.n >= 2 && it.n >= 2:
				use = 2
			}
			inner := toSpans(out[oi+1:])
			var wrapped *Span
			switch {
			case it.delim == '~':
				wrapped = &Span{Kind: Strikethrough, Children: inner}
			case use == 1:
				wrapped = &Span{Kind: Emphasis, Children: inner}
			case use == 2:
				wrapped = &Span{Kind: Strong, Children: inner}
			default:
				wrapped = &Span{Kind: Strong, Children: []*Span{{Kind: Emphasis, Children: inner}}}
			}
			op.n -= use
			it.n -= use
			openers = openers[:k]
			out = out[:oi+1]
			if op.n == 0 {
				out = out[:oi]
			} else {
				openers = append(openers, oi)
			}
			out = append(out, &item{span: wrapped})
		}
		if it.n > 0 {
			out = append(out, it)
			if it.open {
				openers = append(openers, len(out)-1)
			}
		}
	}
	return toSpans(out)
}

func findOpener(out []*item, openers []int, closer *item) int {
	fallback := -1
	for k := len(openers) - 1; k >= 0; k-- {
		op := out[openers[k]]
		if op.delim != closer.delim {
			continue
		}
		if closer.delim == '~' {
			if op.n == 2 && closer.n == 2 {
				return k
			}
			continue
		}
		if op.n >= closer.n {
			return k
		}
		if fallback < 0 {
			fallback = k
		}
	}
	return fallback
}

func toSpans(items []*item) []*Span {
	out := make([]*Span, 0, len(items))
	for _, it := range items {
		if it.delim != 0 {
			out = append(out, &Span{Kind: Text, Text: strings.Repeat(string(it.delim), it.n)})
			continue
		}
		out = append(out, it.span)
	}
	return out
}

// mergeText joins adjacent text spans and drops empty ones.
func mergeText(spans []*Span) []*Span {
	out := spans[:0:0]
	var run []string
	flush := func() {
		if len(run) > 0 {
			out = append(out, &Span{Kind: Text, Text: strings.Join(run, "")})
			run = run[:0]
		}
	}
	for _, s := range spans {
		if s.Kind == Text && len(s.Children) == 0 {
			if s.Text != "" {
				run = append(run, s.Text)
			}
			continue
		}
		flush()
		out = append(out, s)
	}
	flush()
	return out
}
