package sqlgen

import "strings"

const codeFence = "```"

// ExtractSQL recovers executable SQL from model output. When the text holds a
// code fence, the content of the first fenced block is used and a leading
// "sql" language tag is dropped. Text without a fence is returned trimmed.
// Only the first fence pair is considered.
func ExtractSQL(text string) string {
	query := strings.TrimSpace(text)
	if !strings.Contains(query, codeFence) {
		return query
	}

	parts := strings.SplitN(query, codeFence, 3)
	query = strings.TrimSpace(parts[1])
	if len(query) >= 3 && strings.EqualFold(query[:3], "sql") {
		query = strings.TrimSpace(query[3:])
	}
	return query
}
