package harness

import (
	"context"

	"github.com/roach88/catalogcheck/internal/client"
	"github.com/roach88/catalogcheck/internal/contract"
	"github.com/roach88/catalogcheck/internal/ordering"
)

// Scenario is one named request+validate step sequence.
type Scenario struct {
	// Name uniquely identifies the scenario within a suite.
	Name string

	// Description says what the scenario verifies.
	Description string

	// Class groups the scenario in reports.
	Class Class

	// KnownDefect marks a scenario that is expected to fail against the
	// live service. A hard violation is then reported as known-defect and
	// a pass as fixed.
	KnownDefect bool

	// Run issues the calls and records violations on the session. The
	// returned error is reserved for transport and request construction
	// failures; contract failures go through Session.Check.
	Run func(ctx context.Context, s *Session) error
}

// Session is the per-scenario state: a client copy that observes only this
// scenario's calls, plus the violations found so far.
// A session is used by one goroutine.
type Session struct {
	// Client issues calls. Every response it returns is recorded.
	Client *client.Client

	// Order compares strings for sort checks.
	Order ordering.Checker

	calls    []Call
	findings []Finding
	last     string
}

// NewSession wraps c so that every call made through the session is
// recorded.
func NewSession(c *client.Client, order ordering.Checker) *Session {
	s := &Session{Order: order}
	s.Client = c.WithObserver(s.observe)
	return s
}

func (s *Session) observe(r *client.Response) {
	s.calls = append(s.calls, Call{
		Method: r.Request.Method,
		Path:   r.Request.Path,
		Query:  r.Request.Query.Encode(),
		Status: r.Status,
	})
	s.last = r.Request.String()
}

// Check records violations against the most recent call and reports
// whether there were none.
func (s *Session) Check(vs ...*contract.Violation) bool {
	for _, v := range vs {
		s.findings = append(s.findings, Finding{Violation: v, Request: s.last})
	}
	return len(vs) == 0
}

// Calls returns the calls made so far.
func (s *Session) Calls() []Call {
	return append([]Call(nil), s.calls...)
}

// Findings returns the violations recorded so far.
func (s *Session) Findings() []Finding {
	return append([]Finding(nil), s.findings...)
}
