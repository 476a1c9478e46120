package block

import (
	"strings"

	"git.home.luguber.info/inful/mkd/internal/lines"
)

// separatorRow parses a header separator such as `|:--|--:|:-:|`.
func separatorRow(s string) ([]Align, bool) {
	if !strings.Contains(s, "|") || indentOf(s) > 3 {
		return nil, false
	}
	cells := SplitRow(s)
	if len(cells) == 0 {
		return nil, false
	}
	align := make([]Align, len(cells))
	for i, c := range cells {
		c = strings.TrimSpace(c)
		left := strings.HasPrefix(c, ":")
		right := strings.HasSuffix(c, ":") && len(c) > 1
		dashes := strings.Trim(c, ":")
		if dashes == "" || strings.Trim(dashes, "-") != "" {
			return nil, false
		}
		switch {
		case left && right:
			align[i] = AlignCenter
		case left:
			align[i] = AlignLeft
		case right:
			align[i] = AlignRight
		}
	}
	return align, true
}

// SplitRow splits a table row on unescaped pipes. A leading and a trailing
// pipe are optional.
func SplitRow(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "|")
	if strings.HasSuffix(s, "|") && !strings.HasSuffix(s, `\|`) {
		s = s[:len(s)-1]
	}
	var cells []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '|':
			cells = append(cells, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	return append(cells, strings.TrimSpace(s[start:]))
}

// buildTable turns the collected row lines of a table into row and cell
// nodes. Every row gets exactly one cell per column.
func buildTable(n *Node) {
	cols := len(n.Align)
	for i, l := range n.Lines {
		row := &Node{Kind: TableRow, Header: i == 0}
		cells := SplitRow(l.Text)
		for c := 0; c < cols; c++ {
			text := ""
			if c < len(cells) {
				text = cells[c]
			}
			row.add(&Node{
				Kind:  TableCell,
				Align: []Align{n.Align[c]},
				Lines: []lines.Line{{Text: text}},
			})
		}
		n.add(row)
	}
	n.Lines = nil
}
