// Package validation runs independent content checks over plugin files and
// aggregates their verdicts per file.
package validation

import "context"

// FileContext is the read-only input handed to every validator
type FileContext struct {
	Content  string
	FilePath string
}

// Result is the verdict of one or more validators for a single file.
// Valid is false iff Errors is non-empty.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Validator checks one file independently of every other file and validator
type Validator interface {
	// Name identifies the validator in diagnostics
	Name() string

	// Validate checks a single file
	Validate(ctx context.Context, fc FileContext) Result
}

// NewResult returns a passing result with no messages
func NewResult() Result {
	return Result{Valid: true, Errors: []string{}, Warnings: []string{}}
}

// AddError records an error and marks the result invalid
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Valid = false
}

// AddWarning records a warning without affecting validity
func (r *Result) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// HasWarnings reports whether any warnings were recorded
func (r Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Merge combines results in order: Valid is the conjunction of all inputs,
// errors and warnings are concatenated.
func Merge(results ...Result) Result {
	merged := NewResult()
	for _, r := range results {
		if !r.Valid {
			merged.Valid = false
		}
		merged.Errors = append(merged.Errors, r.Errors...)
		merged.Warnings = append(merged.Warnings, r.Warnings...)
	}
	if len(merged.Errors) > 0 {
		merged.Valid = false
	}
	return merged
}
