// Package sniffer picks the column delimiter of a redirect table.
package sniffer

import (
	"errors"
	"strings"
)

// DefaultCandidates is the delimiter priority order used when none is configured.
const DefaultCandidates = ";,\t"

// ErrNoDelimiterFound is returned when no candidate occurs in the sampled line.
var ErrNoDelimiterFound = errors.New("can't find an accepted delimiter in the first line")

// Sniff returns the first candidate, in candidate order, that occurs in line.
// The most frequent candidate does not win; order does.
func Sniff(line string, candidates string) (rune, error) {
	for _, c := range candidates {
		if strings.ContainsRune(line, c) {
			return c, nil
		}
	}
	return 0, ErrNoDelimiterFound
}
