package render

import (
	"bytes"

	"git.home.luguber.info/inful/mkd/internal/frontmatter"
)

const pageHead = `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="en" lang="en">
<head>
`

// Page wraps body in a fixed XHTML 1.0 skeleton carrying the document
// metadata and the extracted css.
func Page(meta frontmatter.Meta, css, body []byte) []byte {
	var b bytes.Buffer
	b.WriteString(pageHead)
	b.WriteString("<title>")
	if meta.Title != nil {
		escape(&b, *meta.Title)
	}
	b.WriteString("</title>\n")
	writeMeta(&b, "author", meta.Author)
	writeMeta(&b, "date", meta.Date)
	b.Write(css)
	b.WriteString("</head>\n<body>\n")
	b.Write(body)
	b.WriteString("</body>\n</html>\n")
	return b.Bytes()
}

func writeMeta(b *bytes.Buffer, name string, value *string) {
	if value == nil {
		return
	}
	b.WriteString(`<meta name="` + name + `" content="`)
	escape(b, *value)
	b.WriteString("\" />\n")
}
