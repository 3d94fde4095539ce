package output

import (
	"fmt"
	"strings"
)

// FormatHeader returns a markdown header of the given level.
func FormatHeader(level int, text string) string {
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue returns a markdown list item with a bold key.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s**: %s", key, value)
}

// FormatCodeBlock returns a fenced markdown code block.
func FormatCodeBlock(lang, code string) string {
	return fmt.Sprintf("```%s\n%s\n```", lang, strings.TrimRight(code, "\n"))
}
