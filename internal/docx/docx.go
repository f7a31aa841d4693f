// Package docx reads and rewrites the text of WordprocessingML (.docx)
// packages.
//
// Only the main document part is interpreted. Body paragraphs and the
// paragraphs of body-level table cells are indexed by their byte spans in
// word/document.xml; saving splices rewritten paragraphs into the original
// bytes and copies every other package entry unchanged.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
)

const documentPart = "word/document.xml"

// ErrNoDocumentPart is returned when the package has no main document part.
var ErrNoDocumentPart = errors.New("docx: word/document.xml not found")

// Document is an opened .docx package.
type Document struct {
	zr         *zip.Reader
	xml        []byte
	paragraphs []*Paragraph
	tables     []*Table
	all        []*Paragraph // every indexed paragraph, in byte order
}

// Table is a body-level table.
type Table struct {
	Rows []*Row
}

// Row is one table row.
type Row struct {
	Cells []*Cell
}

// Cell is one table cell.
type Cell struct {
	Paragraphs []*Paragraph
}

// Open parses a .docx package held in memory. data is never modified.
func Open(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("docx: open package: %w", err)
	}

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return nil, ErrNoDocumentPart
	}

	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("docx: open %s: %w", documentPart, err)
	}
	defer func() { _ = rc.Close() }()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("docx: read %s: %w", documentPart, err)
	}

	doc := &Document{zr: zr, xml: raw}
	if err := doc.index(); err != nil {
		return nil, fmt.Errorf("docx: parse %s: %w", documentPart, err)
	}
	return doc, nil
}

// Paragraphs returns the body paragraphs in document order.
func (d *Document) Paragraphs() []*Paragraph {
	return d.paragraphs
}

// Tables returns the body tables in document order.
func (d *Document) Tables() []*Table {
	return d.tables
}

// Walk visits every body paragraph, then every paragraph of every table cell
// in row-major order.
func (d *Document) Walk(fn func(p *Paragraph)) {
	for _, p := range d.paragraphs {
		fn(p)
	}
	for _, t := range d.tables {
		for _, r := range t.Rows {
			for _, c := range r.Cells {
				for _, p := range c.Paragraphs {
					fn(p)
				}
			}
		}
	}
}

// Save writes the package, with any rewritten paragraphs, to w.
func (d *Document) Save(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, f := range d.zr.File {
		if f.Name != documentPart {
			if err := zw.Copy(f); err != nil {
				return fmt.Errorf("docx: copy %s: %w", f.Name, err)
			}
			continue
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: f.Modified,
		})
		if err != nil {
			return fmt.Errorf("docx: create %s: %w", f.Name, err)
		}
		if _, err := fw.Write(d.render()); err != nil {
			return fmt.Errorf("docx: write %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("docx: finish package: %w", err)
	}
	return nil
}

// Bytes serializes the package into memory.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Document) render() []byte {
	var out bytes.Buffer
	last := 0
	for _, p := range d.all {
		if !p.dirty {
			continue
		}
		out.Write(d.xml[last:p.start])
		p.render(&out)
		last = p.end
	}
	if last == 0 {
		return d.xml
	}
	out.Write(d.xml[last:])
	return out.Bytes()
}
