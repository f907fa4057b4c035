// Package normalizer turns raw redirect table cells into rewrite rules.
package normalizer

import "strings"

// DefaultStatusCode is the redirect status used when a row has no third column.
const DefaultStatusCode = "302"

// UrlParts is a cell split into its host portion and the path after it.
type UrlParts struct {
	Domain string // scheme and host, e.g. "https://a.com"; empty when absent
	Path   string
}

// RedirectRule is one normalized row, ready to be emitted.
type RedirectRule struct {
	FromPath   string
	ToPath     string
	StatusCode string
}

// Parse splits a cell into domain and path.
//
// A domain is an optional http:// or https:// scheme followed by two or more
// dot-separated labels of ASCII letters, immediately followed by "/". When a
// domain is found, Path is everything after that slash; otherwise Path is the
// whole cell.
func Parse(cell string) UrlParts {
	scheme := ""
	switch {
	case strings.HasPrefix(cell, "http://"):
		scheme = "http://"
	case strings.HasPrefix(cell, "https://"):
		scheme = "https://"
	}

	body := cell[len(scheme):]
	slash := strings.IndexByte(body, '/')
	if slash < 0 || !isHost(body[:slash]) {
		return UrlParts{Path: cell}
	}

	return UrlParts{
		Domain: scheme + body[:slash],
		Path:   body[slash+1:],
	}
}

// isHost reports whether s is at least two non-empty, letters-only labels
// joined by dots.
func isHost(s string) bool {
	labels := strings.Split(s, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if label == "" {
			return false
		}
		for i := 0; i < len(label); i++ {
			c := label[i]
			if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
				return false
			}
		}
	}
	return true
}

// Normalize builds the rule for one row.
//
// The destination inherits the source domain when it has none of its own, and
// the destination domain is written out only when it differs from the source
// domain. One leading and one trailing slash are removed from both sides; an
// empty source path becomes "/".
func Normalize(fromCell, toCell, statusCode string) RedirectRule {
	from := Parse(fromCell)
	to := Parse(toCell)

	if to.Domain == "" {
		to.Domain = from.Domain
	}

	toValue := to.Path
	if from.Domain != to.Domain {
		toValue = to.Domain + "/" + to.Path
	}

	fromValue := trimSlashes(from.Path)
	if fromValue == "" {
		fromValue = "/"
	}

	return RedirectRule{
		FromPath:   fromValue,
		ToPath:     trimSlashes(toValue),
		StatusCode: statusCode,
	}
}

// FromFields normalizes a split row. It reports false when the row has fewer
// than two fields. The third field, when present, is the status code and is
// passed through unvalidated.
func FromFields(fields []string, defaultStatus string) (RedirectRule, bool) {
	if len(fields) < 2 {
		return RedirectRule{}, false
	}
	status := defaultStatus
	if len(fields) >= 3 {
		status = fields[2]
	}
	return Normalize(fields[0], fields[1], status), true
}

// trimSlashes removes at most one trailing and one leading "/".
func trimSlashes(s string) string {
	s = strings.TrimSuffix(s, "/")
	return strings.TrimPrefix(s, "/")
}
