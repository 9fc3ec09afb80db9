package httpmetrics

import "strings"

// NormalizePath collapses numeric path parameters so metric label
// cardinality stays bounded: /posts/42 becomes /posts/:id.
func NormalizePath(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if part != "" && isNumeric(part) {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
