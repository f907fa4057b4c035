// Package splitter tokenizes redirect table rows.
package splitter

import "strings"

// Split breaks line into fields at every occurrence of delim.
//
// Interior empty fields are kept and nothing is trimmed. There is no quoting or
// escaping. An empty line yields no fields, and a delimiter at the very end of
// the line does not open a trailing empty field.
func Split(line string, delim rune) []string {
	if line == "" {
		return nil
	}
	fields := strings.Split(line, string(delim))
	if fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}
