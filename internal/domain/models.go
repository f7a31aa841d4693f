package domain

import "sort"

// OutputFileName is the name the filled document is offered under.
const OutputFileName = "filled_template.docx"

// DocxContentType is the MIME type of a WordprocessingML document.
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// FieldMapping maps a placeholder, as it appears literally in the template,
// to its replacement value.
type FieldMapping map[string]string

// Keys returns the placeholders sorted longest first, then lexicographically.
func (m FieldMapping) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Upload is one uploaded file held in memory.
type Upload struct {
	Name string
	Data []byte
}

// FillResult is the outcome of one pipeline run.
type FillResult struct {
	Fields   FieldMapping `json:"fields"`
	Document []byte       `json:"document"`
	FileName string       `json:"file_name"`
}
