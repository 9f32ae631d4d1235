package transfer

import (
	"strings"

	"github.com/statbank-go/statbank/pkg/dataset"
)

// DefaultBoundary separates the dataset sections of the body.
const DefaultBoundary = "12345"

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// BodyEncoder renders datasets into the transfer body.
type BodyEncoder struct {
	// Boundary defaults to DefaultBoundary.
	Boundary string
}

// EncodeBody renders tables with the default boundary.
func EncodeBody(tables []dataset.Table) (string, error) {
	return BodyEncoder{}.Encode(tables)
}

// Encode writes one section per table followed by the closing boundary.
// Rows are semicolon separated without a header row. Every line ends in
// CRLF, including line breaks inside quoted cells.
func (e BodyEncoder) Encode(tables []dataset.Table) (string, error) {
	if err := validateDatasets(tables); err != nil {
		return "", err
	}
	boundary := e.Boundary
	if boundary == "" {
		boundary = DefaultBoundary
	}

	var b strings.Builder
	for _, t := range tables {
		b.WriteString("--" + boundary + "\n")
		b.WriteString("Content-Disposition:form-data; filename=" + t.Name + "\n")
		b.WriteString("Content-type:text/plain\n\n")

		for _, rec := range t.Records() {
			writeRecord(&b, rec)
		}
	}
	b.WriteString("\n--" + boundary + "--")

	return strings.ReplaceAll(lineEndings.Replace(b.String()), "\n", "\r\n"), nil
}

// writeRecord writes one row. A cell is quoted only when it holds the
// delimiter, a quote or a line break; surrounding spaces are kept as is.
func writeRecord(b *strings.Builder, rec []string) {
	for i, cell := range rec {
		if i > 0 {
			b.WriteByte(';')
		}
		if !strings.ContainsAny(cell, ";\"\r\n") {
			b.WriteString(cell)
			continue
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
