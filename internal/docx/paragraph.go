package docx

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// Paragraph is one w:p element. Its text is the concatenation of its runs,
// including runs nested in hyperlinks.
type Paragraph struct {
	prefix  string
	start   int // offset of the start tag in word/document.xml
	end     int // offset just past the end tag
	openTag []byte
	pPr     []byte
	rPr     []byte // properties of the first run
	text    string
	dirty   bool
}

// Text returns the paragraph's current text. Tabs read as "\t", line
// breaks as "\n".
func (p *Paragraph) Text() string {
	return p.text
}

// SetText replaces every run of the paragraph with a single run holding s.
// Paragraph properties and the first run's properties are kept. Setting the
// text it already has leaves the paragraph untouched.
func (p *Paragraph) SetText(s string) {
	if s == p.text {
		return
	}
	p.text = s
	p.dirty = true
}

func (p *Paragraph) qname(local string) string {
	if p.prefix == "" {
		return local
	}
	return p.prefix + ":" + local
}

func (p *Paragraph) render(out *bytes.Buffer) {
	out.Write(p.openTag)
	out.Write(p.pPr)
	if p.text != "" {
		out.WriteString("<" + p.qname("r") + ">")
		out.Write(p.rPr)
		p.renderText(out)
		out.WriteString("</" + p.qname("r") + ">")
	}
	out.WriteString("</" + p.qname("p") + ">")
}

func (p *Paragraph) renderText(out *bytes.Buffer) {
	var seg strings.Builder
	flush := func() {
		if seg.Len() == 0 {
			return
		}
		out.WriteString("<" + p.qname("t") + ` xml:space="preserve">`)
		_ = xml.EscapeText(out, []byte(seg.String()))
		out.WriteString("</" + p.qname("t") + ">")
		seg.Reset()
	}
	for _, r := range p.text {
		switch r {
		case '\t':
			flush()
			out.WriteString("<" + p.qname("tab") + "/>")
		case '\n':
			flush()
			out.WriteString("<" + p.qname("br") + "/>")
		default:
			seg.WriteRune(r)
		}
	}
	flush()
}

// openTagOf returns a start tag usable as the opening of a non-empty
// element, turning a self-closing tag into an open one.
func openTagOf(raw []byte) []byte {
	trimmed := bytes.TrimRight(raw, " \t\r\n")
	if !bytes.HasSuffix(trimmed, []byte("/>")) {
		return append([]byte(nil), raw...)
	}
	tag := bytes.TrimRight(trimmed[:len(trimmed)-2], " \t\r\n")
	out := make([]byte, 0, len(tag)+1)
	out = append(out, tag...)
	return append(out, '>')
}
