package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"glrfill/internal/domain"
)

var sampleFields = domain.FieldMapping{
	"{{NAME}}":         "Jane Doe",
	"{{CLAIM}}":        "C-1, \"urgent\"",
	"{{DATE_OF_LOSS}}": "",
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleFields))

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, BOM))

	rows, err := csv.NewReader(bytes.NewReader(data[len(BOM):])).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Placeholder", "Value"},
		{"{{DATE_OF_LOSS}}", ""},
		{"{{CLAIM}}", "C-1, \"urgent\""},
		{"{{NAME}}", "Jane Doe"},
	}, rows)
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, domain.FieldMapping{}))

	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(BOM):])).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Placeholder", "Value"}}, rows)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleFields))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Fields"}, f.GetSheetList())
	rows, err := f.GetRows("Fields")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Placeholder", "Value"}, rows[0])
	assert.Equal(t, "{{DATE_OF_LOSS}}", rows[1][0])
	assert.Equal(t, []string{"{{CLAIM}}", "C-1, \"urgent\""}, rows[2])
	assert.Equal(t, []string{"{{NAME}}", "Jane Doe"}, rows[3])
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, domain.ExportFormatCSV, f)

	f, err = ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, domain.ExportFormatXLSX, f)

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, domain.ExportFormat("ods"), sampleFields)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestBuildFilename(t *testing.T) {
	now := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "fields_2025-03-09.csv", BuildFilename(domain.ExportFormatCSV, now))
	assert.Equal(t, "fields_2025-03-09.xlsx", BuildFilename(domain.ExportFormatXLSX, now))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv; charset=utf-8", ContentType(domain.ExportFormatCSV))
	assert.Contains(t, ContentType(domain.ExportFormatXLSX), "spreadsheetml")
}
