package config

import (
	"strconv"
	"strings"
)

// ValidationSeverity represents the severity of a validation issue.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
)

// ConfigValidationError represents a single validation issue.
type ConfigValidationError struct {
	Field    string             // Config field with issue (e.g., "delimiters")
	Message  string             // Human-readable description
	Severity ValidationSeverity // "error" or "warning"
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	Errors   []ConfigValidationError
	Warnings []ConfigValidationError
	Valid    bool // True if no errors (warnings OK)
}

// ValidateConfig checks the configuration for errors and returns all findings.
func ValidateConfig(cfg *Configuration) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ConfigValidationError{},
		Warnings: []ConfigValidationError{},
		Valid:    true,
	}

	var findings []ConfigValidationError
	findings = append(findings, ValidateDelimiters(cfg)...)
	findings = append(findings, ValidateStatus(cfg)...)
	findings = append(findings, ValidateOutput(cfg)...)

	for _, f := range findings {
		if f.Severity == SeverityError {
			result.Errors = append(result.Errors, f)
		} else {
			result.Warnings = append(result.Warnings, f)
		}
	}

	result.Valid = len(result.Errors) == 0

	return result
}

// ValidateDelimiters checks that the candidate list is usable for sniffing.
func ValidateDelimiters(cfg *Configuration) []ConfigValidationError {
	var errors []ConfigValidationError

	if cfg.Delimiters == "" {
		return append(errors, ConfigValidationError{
			Field:    "delimiters",
			Message:  "at least one delimiter is required",
			Severity: SeverityError,
		})
	}

	seen := make(map[rune]bool)
	for _, d := range cfg.Delimiters {
		switch {
		case d == '\n' || d == '\r':
			errors = append(errors, ConfigValidationError{
				Field:    "delimiters",
				Message:  "line breaks cannot be used as delimiters",
				Severity: SeverityError,
			})
		case d == '/':
			errors = append(errors, ConfigValidationError{
				Field:    "delimiters",
				Message:  "\"/\" cannot be used as a delimiter because it separates path segments",
				Severity: SeverityError,
			})
		case seen[d]:
			errors = append(errors, ConfigValidationError{
				Field:    "delimiters",
				Message:  "duplicate delimiter " + strconv.QuoteRune(d),
				Severity: SeverityWarning,
			})
		}
		seen[d] = true
	}

	return errors
}

// ValidateStatus checks the default redirect status.
func ValidateStatus(cfg *Configuration) []ConfigValidationError {
	var errors []ConfigValidationError

	status := strings.TrimSpace(cfg.DefaultStatus)
	if status == "" {
		return append(errors, ConfigValidationError{
			Field:    "defaultStatus",
			Message:  "defaultStatus cannot be empty",
			Severity: SeverityError,
		})
	}

	code, err := strconv.Atoi(status)
	if err != nil || code < 300 || code > 399 {
		errors = append(errors, ConfigValidationError{
			Field:    "defaultStatus",
			Message:  "defaultStatus \"" + cfg.DefaultStatus + "\" is not a 3xx redirect code",
			Severity: SeverityWarning,
		})
	}

	return errors
}

// ValidateOutput checks the output path and watch settings.
func ValidateOutput(cfg *Configuration) []ConfigValidationError {
	var errors []ConfigValidationError

	if strings.TrimSpace(cfg.Output) == "" {
		errors = append(errors, ConfigValidationError{
			Field:    "output",
			Message:  "output path cannot be empty",
			Severity: SeverityError,
		})
	}

	if cfg.Watch.DebounceMs < 0 {
		errors = append(errors, ConfigValidationError{
			Field:    "watch.debounceMs",
			Message:  "debounceMs must be a non-negative integer",
			Severity: SeverityError,
		})
	}

	return errors
}
