package client

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// SortOrder is the direction requested with sortBy.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// ListParams are the optional query parameters of GET /products.
// Nil pointers and empty values are not sent.
type ListParams struct {
	Limit  *int
	Skip   *int
	Select []string
	SortBy string
	Order  SortOrder
}

// Query validates the parameters and encodes them.
func (p ListParams) Query() (url.Values, error) {
	q := url.Values{}
	if p.Limit != nil {
		if *p.Limit < 0 {
			return nil, fmt.Errorf("list params: limit must be non-negative, got %d", *p.Limit)
		}
		q.Set("limit", strconv.Itoa(*p.Limit))
	}
	if p.Skip != nil {
		if *p.Skip < 0 {
			return nil, fmt.Errorf("list params: skip must be non-negative, got %d", *p.Skip)
		}
		q.Set("skip", strconv.Itoa(*p.Skip))
	}
	if len(p.Select) > 0 {
		q.Set("select", strings.Join(p.Select, ","))
	}
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
	}
	switch p.Order {
	case "":
	case OrderAsc, OrderDesc:
		q.Set("order", string(p.Order))
	default:
		return nil, fmt.Errorf("list params: order must be %q or %q, got %q", OrderAsc, OrderDesc, p.Order)
	}
	return q, nil
}

// Int returns a pointer to i, for ListParams literals.
func Int(i int) *int { return &i }
