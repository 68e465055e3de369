package validator

import (
	"fmt"
	"strings"

	"github.com/web-perf/react-vr-dbmonster/statemachine"
)

// ValidationResult contains the results of validating a transition table.
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// ValidationError represents a validation error with an optional fix.
type ValidationError struct {
	Code     string   // Error code like "TOTAL_FUNCTION", "UNREACHABLE_STATE"
	Message  string   // Human-readable error message
	Location Location // Where the error occurred
	Fix      *Fix     // Optional auto-fix suggestion
}

// ValidationWarning represents a non-critical issue.
type ValidationWarning struct {
	Code     string
	Message  string
	Location Location
}

// Location identifies the table cell an issue refers to. Signal is empty for row-level issues.
type Location struct {
	State  string
	Signal string
}

func (l Location) String() string {
	if l.Signal == "" {
		return l.State
	}

	return l.State + " on " + l.Signal
}

// Validate checks a table against the default rules, starting from statemachine.InitialState.
func Validate(table statemachine.Table) ValidationResult {
	return ValidateWithRules(table, DefaultRules())
}

// ValidateWithRules validates using custom rules.
func ValidateWithRules(table statemachine.Table, rules []Rule) ValidationResult {
	var result ValidationResult

	result.Valid = true

	for _, rule := range rules {
		ruleResult := rule.Check(&table)
		result.Errors = append(result.Errors, ruleResult.Errors...)
		result.Warnings = append(result.Warnings, ruleResult.Warnings...)
	}

	if len(result.Errors) > 0 {
		result.Valid = false
	}

	return result
}

// ValidateWithRulesStrict validates with strict mode (treats warnings as errors).
func ValidateWithRulesStrict(table statemachine.Table, rules []Rule) ValidationResult {
	result := ValidateWithRules(table, rules)

	for _, warning := range result.Warnings {
		result.Errors = append(result.Errors, ValidationError{
			Code:     warning.Code,
			Message:  warning.Message,
			Location: warning.Location,
		})
	}

	result.Warnings = nil

	if len(result.Errors) > 0 {
		result.Valid = false
	}

	return result
}

// HasErrors returns true if the result has any errors.
func (r ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if the result has any warnings.
func (r ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Codes returns the error codes in report order.
func (r ValidationResult) Codes() []string {
	codes := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		codes[i] = e.Code
	}

	return codes
}

// String returns a human-readable summary of validation results.
func (r ValidationResult) String() string {
	var sb strings.Builder

	if r.Valid {
		sb.WriteString("transition table is valid\n")
	} else {
		sb.WriteString(fmt.Sprintf("transition table has %d error(s)\n", len(r.Errors)))
	}

	for _, err := range r.Errors {
		sb.WriteString(fmt.Sprintf("  [%s] %s (%s)\n", err.Code, err.Message, err.Location))

		if err.Fix != nil {
			sb.WriteString(fmt.Sprintf("    Fix: %s\n", err.Fix.Description))
		}
	}

	if len(r.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("%d warning(s):\n", len(r.Warnings)))

		for _, warn := range r.Warnings {
			sb.WriteString(fmt.Sprintf("  [%s] %s (%s)\n", warn.Code, warn.Message, warn.Location))
		}
	}

	return sb.String()
}
