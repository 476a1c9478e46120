// Package mkd compiles Markdown documents in the discount dialect.
//
// A Document is constructed from a stream or buffer, compiled exactly once
// and then rendered any number of times:
//
//	doc, err := mkd.String(src, len(src), mkd.FlagsOf(mkd.TOC, mkd.FencedCode))
//	if err != nil {
//		return err
//	}
//	if err := doc.Compile(nil); err != nil {
//		return err
//	}
//	html, err := doc.Document()
//
// Construction never fails on malformed markup: anything that is not
// recognized renders as paragraph text. Errors carry a category that Status
// maps onto the negative status codes it returns.
package mkd
