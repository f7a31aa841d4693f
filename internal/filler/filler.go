// Package filler substitutes field values into a .docx template.
package filler

import (
	"fmt"
	"strings"

	"glrfill/internal/docx"
	"glrfill/internal/domain"
)

// Filler implements port.TemplateFiller.
type Filler struct{}

// New creates a new Filler.
func New() *Filler {
	return &Filler{}
}

// Fill opens a fresh copy of template and replaces every occurrence of each
// mapping key in body and table cell paragraphs. All keys are applied in a
// single pass, so a replacement value is never matched against another key.
// Placeholders without a mapping entry are left as they are.
func (f *Filler) Fill(template []byte, fields domain.FieldMapping) ([]byte, error) {
	doc, err := docx.Open(template)
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}

	r := Replacer(fields)
	doc.Walk(func(p *docx.Paragraph) {
		p.SetText(r.Replace(p.Text()))
	})

	out, err := doc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("write document: %w", err)
	}
	return out, nil
}

// Replacer builds the substitution for fields. Keys are tried longest first
// at each position; empty keys are skipped.
func Replacer(fields domain.FieldMapping) *strings.Replacer {
	var oldnew []string
	for _, k := range fields.Keys() {
		if k == "" {
			continue
		}
		oldnew = append(oldnew, k, fields[k])
	}
	return strings.NewReplacer(oldnew...)
}
