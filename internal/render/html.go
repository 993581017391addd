package render

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"nlquery-backend/internal/db"
)

// HumanizeHeader turns a column alias into a table header:
// "first_name" becomes "First Name".
func HumanizeHeader(header string) string {
	// Casers keep state between calls and must not be shared across sessions.
	return cases.Title(language.Und).String(strings.ReplaceAll(header, "_", " "))
}

// HTML renders every result set as a table inside one HTML document.
//
// Cell values are written verbatim without HTML escaping, so markup stored in
// the database reaches the client as markup.
func HTML(resultSets []*db.ResultSet) string {
	var b strings.Builder
	b.WriteString("<html><body>")

	for _, rs := range resultSets {
		b.WriteString("<table border='1'><tr>")
		for _, col := range rs.Columns {
			b.WriteString("<th>")
			b.WriteString(HumanizeHeader(col.Name))
			b.WriteString("</th>")
		}
		b.WriteString("</tr>")

		for _, row := range rs.Rows {
			b.WriteString("<tr>")
			for _, cell := range row.Values {
				b.WriteString("<td>")
				b.WriteString(cell.String())
				b.WriteString("</td>")
			}
			b.WriteString("</tr>")
		}
		b.WriteString("</table>")
	}

	b.WriteString("</body></html>")
	return b.String()
}
