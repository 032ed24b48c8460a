package harness

import (
	"net/http"

	"github.com/roach88/catalogcheck/internal/catalog"
	"github.com/roach88/catalogcheck/internal/client"
	"github.com/roach88/catalogcheck/internal/contract"
)

// The helpers below bundle the checks every scenario of a kind starts with.
// Each records its violations on the session and returns nil when the
// response cannot be inspected further, so a scenario stops at the first
// unusable body instead of piling up follow-on violations.

// Status checks the response status.
func (s *Session) Status(r *client.Response, want int) bool {
	return s.Check(contract.Status(r.Status, want)...)
}

// Envelope checks a 200 listing envelope without looking at the items.
func (s *Session) Envelope(r *client.Response) *contract.RawEnvelope {
	if !s.Status(r, http.StatusOK) {
		return nil
	}
	env, vs := contract.Envelope(r.Body, catalog.ProductsKey)
	s.Check(vs...)
	if env == nil || env.Items == nil {
		return nil
	}
	return env
}

// Listing checks a 200 listing envelope and every product in it.
func (s *Session) Listing(r *client.Response) *contract.RawEnvelope {
	env := s.Envelope(r)
	if env == nil {
		return nil
	}
	s.Check(contract.Products(env.ItemsKey, env.Items)...)
	return env
}

// Product checks a single product body with the given status and returns
// the decoded object.
func (s *Session) Product(r *client.Response, status int) map[string]any {
	if !s.Status(r, status) {
		return nil
	}
	obj, vs := contract.ProductBody(r.Body)
	s.Check(vs...)
	return obj
}

// Echo checks that a simulated write with the given status echoes want and
// returns the decoded object.
func (s *Session) Echo(r *client.Response, status int, want map[string]any) map[string]any {
	if !s.Status(r, status) {
		return nil
	}
	obj, vs := contract.Echo(r.Body, want)
	s.Check(vs...)
	return obj
}
