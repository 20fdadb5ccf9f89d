package csv

import "strings"

// utf8BOM is written by spreadsheet tools at the start of UTF-8 CSV exports.
const utf8BOM = "\ufeff"

// StripHeaderBOM removes a UTF-8 BOM from the first header cell if present.
func StripHeaderBOM(headers []string) []string {
	if len(headers) == 0 {
		return headers
	}
	headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	return headers
}
