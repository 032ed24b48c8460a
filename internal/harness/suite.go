package harness

import (
	"context"
	"fmt"
	"net/http"

	"github.com/roach88/catalogcheck/internal/client"
	"github.com/roach88/catalogcheck/internal/contract"
	"github.com/roach88/catalogcheck/internal/ordering"
)

// DefaultSuite returns the catalog verification suite built on p.
// Scenario order is stable and is the order reports use.
func DefaultSuite(p Params) []Scenario {
	return []Scenario{
		// Format
		{
			Name:        "products-envelope",
			Description: "product listing has the exact envelope and typed core fields",
			Class:       ClassFormat,
			Run:         productsEnvelope(p),
		},
		{
			Name:        "product-core-fields",
			Description: "single product carries typed core fields and the requested id",
			Class:       ClassFormat,
			Run:         productCoreFields(p),
		},
		{
			Name:        "search-envelope",
			Description: "search results use the listing envelope",
			Class:       ClassFormat,
			Run:         searchEnvelope(p),
		},
		{
			Name:        "paged-envelope",
			Description: "limit and skip are reflected in the envelope",
			Class:       ClassFormat,
			Run:         pagedEnvelope(p),
		},
		{
			Name:        "categories-shape",
			Description: "categories are a non-empty array of {slug, name, url}",
			Class:       ClassFormat,
			Run:         categoriesShape(p),
		},
		{
			Name:        "category-slugs-shape",
			Description: "category list is a non-empty array of strings with a known slug",
			Class:       ClassFormat,
			Run:         categorySlugsShape(p),
		},
		{
			Name:        "category-envelope",
			Description: "category listing uses the listing envelope",
			Class:       ClassFormat,
			Run:         categoryEnvelope(p),
		},
		{
			Name:        "select-projection",
			Description: "select returns id plus exactly the selected fields",
			Class:       ClassFormat,
			Run:         selectProjection(p),
		},

		// Behavior
		{
			Name:        "default-page-size",
			Description: "listing without limit returns the default page",
			Class:       ClassBehavior,
			Run:         pageSize(nil, p.DefaultLimit),
		},
		{
			Name:        "limit-honored",
			Description: "listing returns exactly limit items",
			Class:       ClassBehavior,
			Run:         pageSize(client.Int(p.Limit), p.Limit),
		},
		{
			Name:        "skip-offset-distinct",
			Description: "consecutive offsets return different products",
			Class:       ClassBehavior,
			Run:         skipOffsetDistinct(p),
		},
		{
			Name:        "limit-zero-returns-all",
			Description: "limit=0 returns every product",
			Class:       ClassBehavior,
			Run:         limitZeroReturnsAll(p),
		},
		{
			Name:        "limit-above-total",
			Description: "a limit above total returns every product",
			Class:       ClassBehavior,
			Run:         limitAboveTotal(p),
		},
		{
			Name:        "skip-beyond-total",
			Description: "a skip beyond total returns an empty page",
			Class:       ClassBehavior,
			Run:         skipBeyondTotal(p),
		},
		{
			Name:        "sort-title-asc",
			Description: "sortBy with order=asc returns ascending values",
			Class:       ClassBehavior,
			KnownDefect: true,
			Run:         sortedListing(p, ordering.Ascending),
		},
		{
			Name:        "sort-title-desc",
			Description: "sortBy with order=desc returns descending values",
			Class:       ClassBehavior,
			KnownDefect: true,
			Run:         sortedListing(p, ordering.Descending),
		},
		{
			Name:        "category-homogeneity",
			Description: "category listing only contains products of that category",
			Class:       ClassBehavior,
			Run:         categoryHomogeneity(p),
		},
		{
			Name:        "category-slugs-cover-categories",
			Description: "every category slug appears in the category list",
			Class:       ClassBehavior,
			Run:         categorySlugsCoverCategories(p),
		},
		{
			Name:        "search-relevance",
			Description: "search results mention the term in their description (heuristic)",
			Class:       ClassBehavior,
			Run:         searchRelevance(p),
		},

		// Negative
		{
			Name:        "unknown-product-id",
			Description: "unknown id returns 404 with the documented message",
			Class:       ClassNegative,
			Run:         unknownProductID(p),
		},
		{
			Name:        "unmatched-search",
			Description: "search without matches returns an empty zeroed envelope",
			Class:       ClassNegative,
			Run:         unmatchedSearch(p),
		},

		// Simulation
		{
			Name:        "add-product-echo",
			Description: "simulated create returns 201, a fresh id and the payload",
			Class:       ClassSimulation,
			Run:         addProductEcho(p),
		},
		{
			Name:        "update-product-echo",
			Description: "simulated update echoes the id and the payload",
			Class:       ClassSimulation,
			Run:         updateProductEcho(p),
		},
		{
			Name:        "delete-product-flags",
			Description: "simulated delete flags the product with a deletion timestamp",
			Class:       ClassSimulation,
			Run:         deleteProductFlags(p),
		},
	}
}

type runFunc = func(ctx context.Context, s *Session) error

func productsEnvelope(p Params) runFunc {
	return func(ctx context.Context, s *Session) error {
		r, err := s.Client.ListProducts(ctx, client.ListParams{Limit: client.Int(p.EnvelopeLimit)})
		if err != nil {
			return err
		}
		s.Listing(r)
		return nil
	}
}

func productCoreFields(p Params) runFunc {
	return func(ctx context.Context, s *Session) error {
		r, err := s.Client.GetProduct(ctx, p.ProductID)
		if err != nil {
			return err
		}
		if obj := s.Product(r, http.StatusOK); obj != nil {
			s.Check(contract.Equal(contract.ValidatorValue, "id", p.ProductID, obj["id"])...)
		}
		return nil
	}
}

func searchEnvelope(p Params) runFunc {
	return func(ctx context.Context, s *Session) error {
		r, err := s.Client.SearchProducts(ctx, p.SearchTerm)
		if err != nil {
			return err
		}
		s.Listing(r)
		return nil
	}
}

func pagedEnvelope(p Params) runFunc {
	return func(ctx context.Context, s *Session) error {
		r, err := s.Client.ListProducts(ctx, client.ListParams{
			Limit: client.Int(p.PageLimit),
			Skip:  client.Int(p.PageSkip),
		})
		if err != nil {
			return err
		}
		env := s.Listing(r)
		if env == nil {
			return nil
		}
		limit, skip := int64(p.PageLimit), int64(p.PageSkip)
		s.Check(contract.Equal(contract.ValidatorPagination, "skip", skip, env.Skip)...)
		s.Check(contract.Equal(contract.ValidatorPagination, "limit", contract.ExpectedPageLength(env.Total, skip, limit), env.Limit)...)
		s.Check(contract.PageLength(env, limit, skip)...)
		return nil
	}
}

func categoriesShape(_ Params) runFunc {
	return func(ctx context.Context, s *Session) error {
		r, err := s.Client.ListCategories(ctx)
		if err != nil {
			return err
		}
		if s.Status(r, http.StatusOK) {
			s.Check(contract.Categories(r.Body)...)
		}
		return nil
	}
}

func categorySlugsShape(p Params) runFunc {
	return func(ctx context.Context, s *Session) error {
		r, err := s.Client.ListCategorySlugs(ctx)
		if err != nil {
			return err
		}
		if !s.Status(r, http.StatusOK) {
			return nil
		}
		slugs, vs := contract.Slugs(r.Body)
		s.Check(vs...)
		s.Check(contract.Contains(contract.ValidatorSlugs, "", slugs, p.CategorySlug)...)
		return nil
	}
}

func categoryEnvelope(p Params) runFunc {
	return func(ctx context.Context, s *Session) error {
		r, err := s.Client.ListProductsByCategory(ctx, p.CategorySlug)
		if err != nil {
			return err
		}
		s.Listing(r)
		return nil
	}
}

func selectProjection(p Params) runFunc {
	return func(ctx context.Context, s *Session) error {
		r, err := s.Client.ListProducts(ctx, client.ListParams{
			Limit:  client.Int(p.EnvelopeLimit),
			Select: p.SelectFields,
		})
		if err != nil {
			return err
		}
		env := s.Envelope(r)
		if env == nil {
			return nil
		}
		want := append([]string{"id"}, p.SelectFields...)
		for i, item := range env.Items {
			s.Check(contract.Keys(contract.ValidatorProduct, fmt.Sprintf("%s[%d]", env.ItemsKey, i), item, want)...)
		}
		return nil
	}
}

// pageSize checks the page length for a requested limit. A nil limit sends
// no limit and expects want, the service default.
func pageSize(limit *int, want int) runFunc {
	return func(ctx context.Context, s *Session) error {
		r, err := s.Client.ListProducts(ctx, client.ListParams{Limit: limit})
		if err != nil {
			return err
		}
		env := s.Listing(r)
		if env == nil {
			return nil
		}
		s.Check(contract.Equal(contract.ValidatorPagination, "limit", contract.ExpectedPageLength(env.Total, 0, int64(want)), env.Limit)...)
		s.Check(contract.PageLength(env, int64(want), 0)...)
		return nil
	}
}

func skipOffsetDistinct(p Params) runFunc {
	return func(ctx context.Context, s *Session) error {
		r, err := s.Client.ListProducts(ctx, client.ListParams{Limit: client.Int(1), Skip: client.Int(p.ChainSkip)})
		if err != nil {
			return err
		}
		first := firstItem(s, s.Listing(r))
		if first == nil {
			return nil
		}

		r, err = s.Client.ListProducts(ctx, client.ListParams{Limit: client.Int(1), Skip: client.Int(p.ChainSkip + 1)})
		if err != nil {
			return err
		}
		second := firstItem(s, s.Listing(r))
		if second == nil {
			return nil
		}

		s.Check(contract.Distinct(contract.ValidatorPagination, "products[0].id", first["id"], second["id"])...)
		return nil
	}
}

// firstItem returns the first item of a listing, recording a violation
// when there is none.
func firstItem(s *Session, env *contract.RawEnvelope) map[string]any {
	if env == nil || !s.Check(contract.NonEmpty(env)...) {
		return nil
	}
	obj, _ := env.Items[0].(map[string]any)
	return obj
}

func limitZeroReturnsAll(_ Params) runFunc {
	return func(ctx context.Context, s *Session) error {
		r, err := s.Client.ListProducts(ctx, client.ListParams{Limit: client.Int(0)})
		if err != nil {
			return err
		}
		if env := s.Listing(r); env != nil {
			s.Check(contract.Equal(contract.ValidatorPagination, "limit", contract.ExpectedPageLength(env.Total, 0, 0), env.Limit)...)
			s.Check(contract.PageLength(env, 0, 0)...)
		}
		return nil
	}
}

func limitAboveTotal(p Params) runFunc {
	return func(ctx context.Context, s *Session) error {
		r, err := s.Client.ListProducts(ctx, client.ListParams{Limit: client.Int(p.LargeLimit)})
		if err != nil {
			return err
		}
		env := s.Listing(r)
		if env == nil {
			return nil
		}
		s.Check(contract.Less(contract.ValidatorPagination, "total", env.Total, int64(p.LargeLimit))...)
		s.Check(contract.Equal(contract.ValidatorPagination, "limit", contract.ExpectedPageLength(env.Total, 0, int64(p.LargeLimit)), env.Limit)...)
		s.Check(contract.PageLength(env, int64(p.LargeLimit), 0)...)
		return nil
	}
}

func skipBeyondTotal(p Params) runFunc {
	return func(ctx context.Context, s *Session) error {
		r, err := s.Client.ListProducts(ctx, client.ListParams{Skip: client.Int(p.LargeSkip)})
		if err != nil {
			return err
		}
		env := s.Listing(r)
		if env == nil {
			return nil
		}
		s.Check(contract.Empty(env)...)
		s.Check(contract.Equal(contract.ValidatorPagination, "skip", p.LargeSkip, env.Skip)...)
		s.Check(contract.Less(contract.ValidatorPagination, "total", env.Total, int64(p.LargeSkip))...)
		return nil
	}
}

func sortedListing(p Params, dir ordering.Direction) runFunc {
	order := client.OrderAsc
	if dir == ordering.Descending {
		order = client.OrderDesc
	}
	return func(ctx context.Context, s *Session) error {
		r, err := s.Client.ListProducts(ctx, client.ListParams{
			Limit:  client.Int(p.SortLimit),
			SortBy: p.SortBy,
			Order:  order,
		})
		if err != nil {
			return err
		}
		if env := s.Listing(r); env != nil {
			s.Check(contract.Sorted(s.Order, p.SortBy, contract.StringField(env, p.SortBy), dir)...)
		}
		return nil
	}
}

func categoryHomogeneity(p Params) runFunc {
	return func(ctx context.Context, s *Session) error {
		r, err := s.Client.ListProductsByCategory(ctx, p.CategorySlug)
		if err != nil {
			return err
		}
		env := s.Listing(r)
		if env == nil || !s.Check(contract.NonEmpty(env)...) {
			return nil
		}
		s.Check(contract.Homogeneous(env, "category", p.CategorySlug)...)
		return nil
	}
}

func categorySlugsCoverCategories(_ Params) runFunc {
	return func(ctx context.Context, s *Session) error {
		r, err := s.Client.ListCategories(ctx)
		if err != nil {
			return err
		}
		if !s.Status(r, http.StatusOK) || !s.Check(contract.Categories(r.Body)...) {
			return nil
		}
		categories, err := client.DecodeCategories(r)
		if err != nil {
			return err
		}

		r, err = s.Client.ListCategorySlugs(ctx)
		if err != nil {
			return err
		}
		if !s.Status(r, http.StatusOK) {
			return nil
		}
		slugs, vs := contract.Slugs(r.Body)
		s.Check(vs...)
		for i, c := range categories {
			s.Check(contract.Contains(contract.ValidatorSlugs, fmt.Sprintf("categories[%d].slug", i), slugs, c.Slug)...)
		}
		return nil
	}
}

func searchRelevance(p Params) runFunc {
	return func(ctx context.Context, s *Session) error {
		r, err := s.Client.SearchProducts(ctx, p.SearchTerm)
		if err != nil {
			return err
		}
		env := s.Listing(r)
		if env == nil || !s.Check(contract.Heuristic(contract.NonEmpty(env))...) {
			return nil
		}
		s.Check(contract.Mentions(env, "description", p.SearchTerm)...)
		return nil
	}
}

func unknownProductID(p Params) runFunc {
	return func(ctx context.Context, s *Session) error {
		r, err := s.Client.GetProduct(ctx, p.MissingProductID)
		if err != nil {
			return err
		}
		if s.Status(r, http.StatusNotFound) {
			s.Check(contract.NotFound(r.Body, "Product", p.MissingProductID)...)
		}
		return nil
	}
}

func unmatchedSearch(p Params) runFunc {
	return func(ctx context.Context, s *Session) error {
		r, err := s.Client.SearchProducts(ctx, p.UnmatchedSearchTerm)
		if err != nil {
			return err
		}
		env := s.Listing(r)
		if env == nil {
			return nil
		}
		s.Check(contract.Empty(env)...)
		s.Check(contract.Equal(contract.ValidatorPagination, "total", 0, env.Total)...)
		s.Check(contract.Equal(contract.ValidatorPagination, "skip", 0, env.Skip)...)
		s.Check(contract.Equal(contract.ValidatorPagination, "limit", 0, env.Limit)...)
		return nil
	}
}

func addProductEcho(p Params) runFunc {
	return func(ctx context.Context, s *Session) error {
		payload := p.NewProduct.Payload()
		r, err := s.Client.AddProduct(ctx, payload)
		if err != nil {
			return err
		}
		if obj := s.Echo(r, http.StatusCreated, payload.Fields()); obj != nil {
			s.Check(contract.FreshID(obj)...)
		}
		return nil
	}
}

func updateProductEcho(p Params) runFunc {
	return func(ctx context.Context, s *Session) error {
		payload := p.UpdatedProduct.Payload()
		r, err := s.Client.UpdateProduct(ctx, p.ProductID, payload)
		if err != nil {
			return err
		}
		want := payload.Fields()
		want["id"] = p.ProductID
		s.Echo(r, http.StatusOK, want)
		return nil
	}
}

func deleteProductFlags(p Params) runFunc {
	return func(ctx context.Context, s *Session) error {
		r, err := s.Client.DeleteProduct(ctx, p.ProductID)
		if err != nil {
			return err
		}
		obj := s.Product(r, http.StatusOK)
		if obj == nil {
			return nil
		}
		s.Check(contract.Equal(contract.ValidatorValue, "id", p.ProductID, obj["id"])...)
		s.Check(contract.Deleted(obj)...)
		return nil
	}
}

// Names returns the names of scenarios in order.
func Names(scenarios []Scenario) []string {
	out := make([]string, len(scenarios))
	for i, sc := range scenarios {
		out[i] = sc.Name
	}
	return out
}
