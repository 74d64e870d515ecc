// Package csvexport writes rosters in the fixed CSV layout consumed by
// spreadsheet imports: an unquoted header followed by fully quoted rows.
package csvexport

import (
	"io"
	"strings"

	"github.com/wolfeidau/roster/internal/roster"
)

// Header is the first line of every document, without the line terminator.
const Header = "Name, Email, Household Email"

const crlf = "\r\n"

// ToCSV renders records as a CSV document.
func ToCSV(records []roster.MemberRecord) string {
	var b strings.Builder
	b.WriteString(Header + crlf)
	for _, rec := range records {
		writeRow(&b, rec.Name, rec.Email, rec.HouseholdEmail)
	}
	return b.String()
}

// Write renders records to w.
func Write(w io.Writer, records []roster.MemberRecord) error {
	_, err := io.WriteString(w, ToCSV(records))
	return err
}

// writeRow quotes every field. Embedded quotes are doubled, commas and line
// breaks are safe inside the quotes.
func writeRow(b *strings.Builder, fields ...string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteString(crlf)
}
