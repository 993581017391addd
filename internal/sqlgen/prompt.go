package sqlgen

import (
	"fmt"
	"strings"

	"nlquery-backend/internal/db"
)

// SystemPrompt is the fixed role given to the model
const SystemPrompt = "You are a helpful assistant that generates SQL queries based on the database schema and user questions."

// promptInstructions is appended to every prompt
const promptInstructions = "Note: Ensure to handle date inputs correctly, whether only date or datetime is provided. " +
	"Use SQL functions such as DATE() or STR_TO_DATE() as required, and always alias columns with 'AS' for clarity."

// SummarizeSchema flattens a schema to one line per table:
// "Table orders: id (int), total_amount (decimal(10,2))"
func SummarizeSchema(schema db.Schema) string {
	lines := make([]string, 0, len(schema.Tables))
	for _, table := range schema.Tables {
		columns := make([]string, 0, len(table.Columns))
		for _, col := range table.Columns {
			columns = append(columns, fmt.Sprintf("%s (%s)", col.Name, col.Type))
		}
		lines = append(lines, fmt.Sprintf("Table %s: %s", table.Name, strings.Join(columns, ", ")))
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt embeds the schema summary and the question in the user prompt
func BuildPrompt(question, schemaSummary string) string {
	return fmt.Sprintf("Schema Summary: %s\nQuestion: %s\n\n%s", schemaSummary, question, promptInstructions)
}
