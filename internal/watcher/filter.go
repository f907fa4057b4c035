package watcher

import (
	"path/filepath"
	"strings"
)

// DefaultIgnorePatterns returns editor and office temp files that appear next
// to a table while it is being saved.
func DefaultIgnorePatterns() []string {
	return []string{
		"*.tmp",
		"*.swp",
		"*~",
		".~lock.*", // LibreOffice lock files
		"~$*",      // Excel owner files
	}
}

// FileFilter decides which file system events concern the watched files.
type FileFilter struct {
	targets  map[string]bool
	patterns []string
}

// NewFileFilter creates a filter accepting only the given absolute paths.
// If patterns is nil, default patterns are used.
func NewFileFilter(targets []string, patterns []string) *FileFilter {
	if patterns == nil {
		patterns = DefaultIgnorePatterns()
	}
	set := make(map[string]bool, len(targets))
	for _, t := range targets {
		set[filepath.Clean(t)] = true
	}
	return &FileFilter{
		targets:  set,
		patterns: patterns,
	}
}

// ShouldIgnore reports whether an event on path should not trigger a
// regeneration: either it is not a watched file or its name looks temporary.
func (f *FileFilter) ShouldIgnore(path string) bool {
	if !f.targets[filepath.Clean(path)] {
		return true
	}
	return f.IsTemporary(path)
}

// IsTemporary matches the base name of path against the ignore patterns.
func (f *FileFilter) IsTemporary(path string) bool {
	filename := filepath.Base(path)
	for _, pattern := range f.patterns {
		if matched, err := filepath.Match(pattern, filename); err == nil && matched {
			return true
		}
		if strings.HasPrefix(pattern, ".") && !strings.ContainsAny(pattern, "*?[") {
			if strings.HasSuffix(strings.ToLower(filename), strings.ToLower(pattern)) {
				return true
			}
		}
	}
	return false
}

// Targets returns the watched paths.
func (f *FileFilter) Targets() []string {
	result := make([]string, 0, len(f.targets))
	for t := range f.targets {
		result = append(result, t)
	}
	return result
}
