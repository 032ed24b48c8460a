// Package contract validates catalog API responses against their documented
// shape.
//
// Validators operate on the raw body (decoded with json.Number so integers
// and floats stay distinguishable) and return a slice of *Violation. A nil
// slice means the contract holds. Validators never coerce values: a price
// sent as the string "9.99" is a violation, not a number.
package contract

import (
	"fmt"
	"strings"
)

// Severity separates hard contract failures from heuristic mismatches.
type Severity string

const (
	// SeverityHard is a documented contract that did not hold.
	SeverityHard Severity = "hard"
	// SeverityHeuristic is an expectation that usually holds but is not
	// guaranteed by the API.
	SeverityHeuristic Severity = "heuristic"
)

// Validator names used in violations.
const (
	ValidatorStatus     = "status"
	ValidatorEnvelope   = "envelope"
	ValidatorProduct    = "product"
	ValidatorCategory   = "category"
	ValidatorSlugs      = "slugs"
	ValidatorNotFound   = "not_found"
	ValidatorPagination = "pagination"
	ValidatorFilter     = "filter"
	ValidatorOrdering   = "ordering"
	ValidatorEcho       = "echo"
	ValidatorDeletion   = "deletion"
	ValidatorRelevance  = "relevance"
	ValidatorSchema     = "schema"
	ValidatorValue      = "value"
)

// Violation is a single failed expectation.
type Violation struct {
	Validator string   `json:"validator"`
	Field     string   `json:"field,omitempty"`
	Expected  string   `json:"expected"`
	Actual    string   `json:"actual"`
	Severity  Severity `json:"severity"`
}

// Error implements the error interface.
func (v *Violation) Error() string {
	var buf strings.Builder
	buf.WriteString(v.Validator)
	if v.Field != "" {
		fmt.Fprintf(&buf, " %s", v.Field)
	}
	fmt.Fprintf(&buf, ": expected %s, got %s", v.Expected, v.Actual)
	if v.Severity == SeverityHeuristic {
		buf.WriteString(" (heuristic)")
	}
	return buf.String()
}

// Heuristic downgrades violations to heuristic severity in place.
func Heuristic(vs []*Violation) []*Violation {
	for _, v := range vs {
		v.Severity = SeverityHeuristic
	}
	return vs
}

// HasHard reports whether any violation is hard.
func HasHard(vs []*Violation) bool {
	for _, v := range vs {
		if v.Severity != SeverityHeuristic {
			return true
		}
	}
	return false
}

func violation(validator, field, expected, actual string) *Violation {
	return &Violation{
		Validator: validator,
		Field:     field,
		Expected:  expected,
		Actual:    actual,
		Severity:  SeverityHard,
	}
}

// Status checks the HTTP status code.
func Status(got, want int) []*Violation {
	if got == want {
		return nil
	}
	return []*Violation{violation(ValidatorStatus, "", fmt.Sprintf("status %d", want), fmt.Sprintf("status %d", got))}
}
