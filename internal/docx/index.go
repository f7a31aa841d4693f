package docx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// indexer walks word/document.xml once and records the byte spans of the
// paragraphs that are part of the text model.
type indexer struct {
	data  []byte
	doc   *Document
	stack []string // local names of the open elements

	cur      *Paragraph
	curDepth int // len(stack) with cur's element pushed
	runDepth int // len(stack) with the current run pushed, 0 outside runs
	runs     int // runs seen in cur
	inText   bool

	pPrStart int
	pPrDepth int
	rPrStart int
	rPrDepth int
}

func (d *Document) index() error {
	ix := &indexer{data: d.xml, doc: d}
	dec := xml.NewDecoder(bytes.NewReader(d.xml))
	for {
		before := dec.InputOffset()
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		after := dec.InputOffset()

		switch t := tok.(type) {
		case xml.StartElement:
			ix.start(t, int(before), int(after))
		case xml.EndElement:
			if err := ix.end(t, int(after)); err != nil {
				return err
			}
		case xml.CharData:
			if ix.inText {
				ix.cur.text += string(t)
			}
		}
	}
	if len(ix.stack) != 0 {
		return fmt.Errorf("unclosed element %q", ix.stack[len(ix.stack)-1])
	}
	return nil
}

// path reports whether the open elements are exactly names.
func (ix *indexer) path(names ...string) bool {
	if len(ix.stack) != len(names) {
		return false
	}
	for i, n := range names {
		if ix.stack[i] != n {
			return false
		}
	}
	return true
}

func (ix *indexer) start(t xml.StartElement, before, after int) {
	local := t.Name.Local

	if ix.cur == nil {
		switch local {
		case "tbl":
			if ix.path("document", "body") {
				ix.doc.tables = append(ix.doc.tables, &Table{})
			}
		case "tr":
			if ix.path("document", "body", "tbl") {
				tbl := ix.doc.tables[len(ix.doc.tables)-1]
				tbl.Rows = append(tbl.Rows, &Row{})
			}
		case "tc":
			if ix.path("document", "body", "tbl", "tr") {
				tbl := ix.doc.tables[len(ix.doc.tables)-1]
				row := tbl.Rows[len(tbl.Rows)-1]
				row.Cells = append(row.Cells, &Cell{})
			}
		case "p":
			ix.openParagraph(t, before, after)
		}
		ix.stack = append(ix.stack, local)
		return
	}

	ix.stack = append(ix.stack, local)
	depth := len(ix.stack)
	rel := depth - ix.curDepth

	switch {
	case rel == 1 && local == "pPr":
		ix.pPrStart, ix.pPrDepth = before, depth
	case local == "r" && (rel == 1 || (rel == 2 && ix.stack[ix.curDepth] == "hyperlink")):
		ix.runDepth = depth
		ix.runs++
	case ix.runDepth != 0 && depth == ix.runDepth+1:
		switch local {
		case "rPr":
			if ix.runs == 1 {
				ix.rPrStart, ix.rPrDepth = before, depth
			}
		case "t":
			ix.inText = true
		case "tab", "ptab":
			ix.cur.text += "\t"
		case "cr":
			ix.cur.text += "\n"
		case "br":
			if breakType(t) == "" || breakType(t) == "textWrapping" {
				ix.cur.text += "\n"
			}
		case "noBreakHyphen":
			ix.cur.text += "-"
		}
	}
}

func (ix *indexer) openParagraph(t xml.StartElement, before, after int) {
	var cell *Cell
	switch {
	case ix.path("document", "body"):
	case ix.path("document", "body", "tbl", "tr", "tc"):
		tbl := ix.doc.tables[len(ix.doc.tables)-1]
		row := tbl.Rows[len(tbl.Rows)-1]
		cell = row.Cells[len(row.Cells)-1]
	default:
		return
	}

	p := &Paragraph{
		prefix:  t.Name.Space,
		start:   before,
		openTag: openTagOf(ix.data[before:after]),
	}
	if cell != nil {
		cell.Paragraphs = append(cell.Paragraphs, p)
	} else {
		ix.doc.paragraphs = append(ix.doc.paragraphs, p)
	}
	ix.doc.all = append(ix.doc.all, p)

	ix.cur = p
	ix.curDepth = len(ix.stack) + 1
	ix.runDepth, ix.runs = 0, 0
}

func (ix *indexer) end(t xml.EndElement, after int) error {
	if len(ix.stack) == 0 {
		return fmt.Errorf("unexpected end element %q", t.Name.Local)
	}
	depth := len(ix.stack)
	ix.stack = ix.stack[:depth-1]

	if ix.cur == nil {
		return nil
	}

	switch {
	case depth == ix.curDepth:
		ix.cur.end = after
		ix.cur = nil
		ix.runDepth = 0
		ix.inText = false
	case depth == ix.pPrDepth:
		ix.cur.pPr = append([]byte(nil), ix.data[ix.pPrStart:after]...)
		ix.pPrDepth = 0
	case depth == ix.rPrDepth:
		ix.cur.rPr = append([]byte(nil), ix.data[ix.rPrStart:after]...)
		ix.rPrDepth = 0
	case depth == ix.runDepth:
		ix.runDepth = 0
	case ix.inText && t.Name.Local == "t":
		ix.inText = false
	}
	return nil
}

func breakType(t xml.StartElement) string {
	for _, a := range t.Attr {
		if a.Name.Local == "type" {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}
