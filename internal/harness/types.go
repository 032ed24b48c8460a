package harness

import (
	"fmt"
	"time"

	"github.com/roach88/catalogcheck/internal/contract"
)

// Class groups scenarios by what they verify.
type Class string

const (
	// ClassFormat scenarios verify envelope and entity shape.
	ClassFormat Class = "format"
	// ClassBehavior scenarios verify data-dependent contracts.
	ClassBehavior Class = "behavior"
	// ClassNegative scenarios verify documented error and empty responses.
	ClassNegative Class = "negative"
	// ClassSimulation scenarios verify simulated writes.
	ClassSimulation Class = "simulation"
)

// Classes lists every class in report order.
var Classes = []Class{ClassFormat, ClassBehavior, ClassNegative, ClassSimulation}

// Status is the classified result of one scenario.
type Status string

const (
	StatusPass Status = "pass"
	// StatusFail means at least one hard violation.
	StatusFail Status = "fail"
	// StatusHeuristic means only heuristic violations.
	StatusHeuristic Status = "heuristic"
	// StatusKnownDefect is an expected failure of a scenario flagged as a
	// known defect of the service.
	StatusKnownDefect Status = "known-defect"
	// StatusFixed is a known-defect scenario that unexpectedly passed.
	StatusFixed Status = "fixed"
	// StatusError is a transport or request construction failure.
	StatusError Status = "error"
)

// Call is one request a scenario issued, as reported.
type Call struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Query  string `json:"query,omitempty"`
	Status int    `json:"status"`
}

// Request renders the call as "GET /products?limit=5".
func (c Call) Request() string {
	if c.Query == "" {
		return c.Method + " " + c.Path
	}
	return c.Method + " " + c.Path + "?" + c.Query
}

// String renders the call with its status.
func (c Call) String() string {
	return fmt.Sprintf("%s -> %d", c.Request(), c.Status)
}

// Finding is a violation together with the request whose response it was
// found in.
type Finding struct {
	*contract.Violation
	Request string `json:"request,omitempty"`
}

// Outcome is the result of running one scenario.
type Outcome struct {
	Name        string        `json:"name"`
	Class       Class         `json:"class"`
	Status      Status        `json:"status"`
	KnownDefect bool          `json:"known_defect,omitempty"`
	Violations  []Finding     `json:"violations,omitempty"`
	Calls       []Call        `json:"calls"`
	Error       string        `json:"error,omitempty"`
	Duration    time.Duration `json:"duration"`
}

// classify derives the status from the findings and the run error.
func classify(knownDefect bool, findings []Finding, err error) Status {
	if err != nil {
		return StatusError
	}

	vs := make([]*contract.Violation, len(findings))
	for i, f := range findings {
		vs[i] = f.Violation
	}
	hard, found := contract.HasHard(vs), len(findings) > 0

	switch {
	case knownDefect && hard:
		return StatusKnownDefect
	case knownDefect:
		return StatusFixed
	case hard:
		return StatusFail
	case found:
		return StatusHeuristic
	default:
		return StatusPass
	}
}

// Summary counts outcomes by status.
type Summary struct {
	Total       int `json:"total"`
	Pass        int `json:"pass"`
	Fail        int `json:"fail"`
	Heuristic   int `json:"heuristic"`
	KnownDefect int `json:"known_defect"`
	Fixed       int `json:"fixed"`
	Error       int `json:"error"`
}

// Summarize counts outcomes.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		switch o.Status {
		case StatusPass:
			s.Pass++
		case StatusFail:
			s.Fail++
		case StatusHeuristic:
			s.Heuristic++
		case StatusKnownDefect:
			s.KnownDefect++
		case StatusFixed:
			s.Fixed++
		case StatusError:
			s.Error++
		}
	}
	return s
}

// Report is the result of one suite run.
type Report struct {
	RunID      string    `json:"run_id"`
	BaseURL    string    `json:"base_url"`
	Suite      string    `json:"suite,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Outcomes   []Outcome `json:"outcomes"`
	Summary    Summary   `json:"summary"`
}

// Failed reports whether the run should be treated as failing.
// Hard failures and errors always fail. In strict mode heuristic
// mismatches and known defects that started passing fail too.
func (r *Report) Failed(strict bool) bool {
	s := r.Summary
	if s.Fail > 0 || s.Error > 0 {
		return true
	}
	return strict && (s.Heuristic > 0 || s.Fixed > 0)
}
