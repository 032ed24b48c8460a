package harness

import "github.com/roach88/catalogcheck/internal/catalog"

// Params are the fixture values the default suite sends and expects.
// Every field can be overridden from a suite file.
type Params struct {
	// ProductID names a product assumed to exist.
	ProductID int64 `yaml:"product_id"`
	// MissingProductID names a product assumed not to exist.
	MissingProductID int64 `yaml:"missing_product_id"`

	SearchTerm          string `yaml:"search_term"`
	UnmatchedSearchTerm string `yaml:"unmatched_search_term"`
	CategorySlug        string `yaml:"category_slug"`

	EnvelopeLimit int `yaml:"envelope_limit"`
	DefaultLimit  int `yaml:"default_limit"`
	Limit         int `yaml:"limit"`
	PageLimit     int `yaml:"page_limit"`
	PageSkip      int `yaml:"page_skip"`

	// ChainSkip is the skip of the first page in the offset-distinctness
	// check; the second page uses ChainSkip+1.
	ChainSkip int `yaml:"chain_skip"`

	// LargeLimit and LargeSkip must exceed the catalog size.
	LargeLimit int `yaml:"large_limit"`
	LargeSkip  int `yaml:"large_skip"`

	SortLimit int    `yaml:"sort_limit"`
	SortBy    string `yaml:"sort_by"`

	SelectFields []string `yaml:"select_fields"`

	NewProduct     PayloadParams `yaml:"new_product"`
	UpdatedProduct PayloadParams `yaml:"updated_product"`
}

// PayloadParams is the YAML form of a write payload. Zero values are not
// sent.
type PayloadParams struct {
	Title    string  `yaml:"title"`
	Price    float64 `yaml:"price"`
	Category string  `yaml:"category"`
}

// Payload converts p to the client payload.
func (p PayloadParams) Payload() catalog.ProductPayload {
	var out catalog.ProductPayload
	if p.Title != "" {
		out.Title = catalog.String(p.Title)
	}
	if p.Price != 0 {
		out.Price = catalog.Float(p.Price)
	}
	if p.Category != "" {
		out.Category = catalog.String(p.Category)
	}
	return out
}

// DefaultParams returns the fixtures of the public catalog service.
func DefaultParams() Params {
	return Params{
		ProductID:           1,
		MissingProductID:    99999,
		SearchTerm:          "phone",
		UnmatchedSearchTerm: "xyz123abc",
		CategorySlug:        "smartphones",

		EnvelopeLimit: 5,
		DefaultLimit:  catalog.DefaultPageSize,
		Limit:         10,
		PageLimit:     7,
		PageSkip:      7,
		ChainSkip:     0,
		LargeLimit:    9999,
		LargeSkip:     9999,
		SortLimit:     30,
		SortBy:        "title",

		SelectFields: []string{"title", "price", "category"},

		NewProduct: PayloadParams{
			Title:    "Deep Origin Pencil",
			Price:    9.99,
			Category: "test",
		},
		UpdatedProduct: PayloadParams{
			Title:    "New Galaxy Deep +1",
			Category: "Updated Category",
		},
	}
}
