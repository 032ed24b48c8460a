package harness

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/catalogcheck/internal/contract"
	"github.com/roach88/catalogcheck/internal/fakecatalog"
)

// override serves h for one path and delegates everything else to base.
func override(base http.Handler, path string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == path {
			h(w, r)
			return
		}
		base.ServeHTTP(w, r)
	})
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

// runNamed runs the named default scenarios against h.
func runNamed(t *testing.T, h http.Handler, names ...string) *Report {
	t.Helper()
	suite, err := Select(DefaultSuite(DefaultParams()), names, nil)
	require.NoError(t, err)
	require.Len(t, suite, len(names))

	report, err := newRunner(newClient(t, h)).Run(context.Background(), suite)
	require.NoError(t, err)
	return report
}

func TestDefaultSuite_Shape(t *testing.T) {
	suite := DefaultSuite(DefaultParams())
	require.Len(t, suite, 24)

	seen := make(map[string]bool)
	for _, sc := range suite {
		assert.False(t, seen[sc.Name], "duplicate scenario %s", sc.Name)
		seen[sc.Name] = true
		assert.NotEmpty(t, sc.Description, sc.Name)
		assert.NotNil(t, sc.Run, sc.Name)
		assert.True(t, isKnownClass(sc.Class), sc.Name)
	}

	var known []string
	for _, sc := range suite {
		if sc.KnownDefect {
			known = append(known, sc.Name)
		}
	}
	assert.Equal(t, []string{"sort-title-asc", "sort-title-desc"}, known)
	assert.Equal(t, "products-envelope", Names(suite)[0])
}

func TestScenario_ProductWithStringPrice(t *testing.T) {
	h := override(fakecatalog.New(fakecatalog.Options{}), "/products/1",
		respond(http.StatusOK, `{"id":1,"title":"Essence Mascara","category":"beauty","price":"9.99"}`))

	report := runNamed(t, h, "product-core-fields")

	o := report.Outcomes[0]
	assert.Equal(t, StatusFail, o.Status)
	require.Len(t, o.Violations, 1)
	assert.Equal(t, contract.ValidatorProduct, o.Violations[0].Validator)
	assert.Equal(t, "price", o.Violations[0].Field)
	assert.Equal(t, "GET /products/1", o.Violations[0].Request)
}

func TestScenario_WrongNotFoundMessage(t *testing.T) {
	h := override(fakecatalog.New(fakecatalog.Options{}), "/products/99999",
		respond(http.StatusNotFound, `{"message":"Not found"}`))

	report := runNamed(t, h, "unknown-product-id")

	o := report.Outcomes[0]
	assert.Equal(t, StatusFail, o.Status)
	require.Len(t, o.Violations, 1)
	assert.Equal(t, contract.ValidatorNotFound, o.Violations[0].Validator)
	assert.Equal(t, "message", o.Violations[0].Field)
	assert.Contains(t, o.Violations[0].Expected, "Product with id '99999' not found")
}

func TestScenario_UnknownIDReturns200(t *testing.T) {
	h := override(fakecatalog.New(fakecatalog.Options{}), "/products/99999",
		respond(http.StatusOK, `{"id":99999,"title":"Ghost","category":"none","price":1}`))

	report := runNamed(t, h, "unknown-product-id")

	o := report.Outcomes[0]
	assert.Equal(t, StatusFail, o.Status)
	require.Len(t, o.Violations, 1)
	assert.Equal(t, contract.ValidatorStatus, o.Violations[0].Validator)
}

func TestScenario_SkipIgnored(t *testing.T) {
	h := override(fakecatalog.New(fakecatalog.Options{}), "/products",
		func(w http.ResponseWriter, r *http.Request) {
			respond(http.StatusOK, `{"products":[{"id":1,"title":"Essence Mascara","category":"beauty","price":9.99}],"total":36,"skip":`+
				r.URL.Query().Get("skip")+`,"limit":1}`)(w, r)
		})

	report := runNamed(t, h, "skip-offset-distinct")

	o := report.Outcomes[0]
	assert.Equal(t, StatusFail, o.Status)
	require.Len(t, o.Violations, 1)
	assert.Equal(t, contract.ValidatorPagination, o.Violations[0].Validator)
	assert.Equal(t, "GET /products?limit=1&skip=1", o.Violations[0].Request)
	assert.Len(t, o.Calls, 2)
}

func TestScenario_SearchRelevanceIsHeuristic(t *testing.T) {
	h := override(fakecatalog.New(fakecatalog.Options{}), "/products/search",
		respond(http.StatusOK, `{"products":[
			{"id":1,"title":"Phone stand","category":"mobile-accessories","price":5,"description":"A phone stand."},
			{"id":2,"title":"Tablet","category":"tablets","price":300,"description":"A large tablet."}
		],"total":2,"skip":0,"limit":2}`))

	// Select keeps suite order: search-envelope runs first.
	report := runNamed(t, h, "search-envelope", "search-relevance")

	assert.Equal(t, StatusPass, report.Outcomes[0].Status)
	assert.Equal(t, StatusHeuristic, report.Outcomes[1].Status)
	require.Len(t, report.Outcomes[1].Violations, 1)
	v := report.Outcomes[1].Violations[0]
	assert.Equal(t, "products[1].description", v.Field)
	assert.Equal(t, contract.ValidatorRelevance, v.Validator)
	assert.Equal(t, contract.SeverityHeuristic, v.Severity)
	assert.False(t, report.Failed(false))
	assert.True(t, report.Failed(true))
}

func TestScenario_EmptySearchIsHeuristic(t *testing.T) {
	h := override(fakecatalog.New(fakecatalog.Options{}), "/products/search",
		respond(http.StatusOK, `{"products":[],"total":0,"skip":0,"limit":0}`))

	report := runNamed(t, h, "search-relevance")
	assert.Equal(t, StatusHeuristic, report.Outcomes[0].Status)
}

func TestScenario_BrokenEnvelope(t *testing.T) {
	h := override(fakecatalog.New(fakecatalog.Options{}), "/products",
		respond(http.StatusOK, `{"items":[],"total":"36"}`))

	report := runNamed(t, h, "products-envelope")

	o := report.Outcomes[0]
	assert.Equal(t, StatusFail, o.Status)
	assert.NotEmpty(t, o.Violations)
	for _, f := range o.Violations {
		assert.Equal(t, "GET /products?limit=5", f.Request)
	}
}

func TestScenario_AddProductDropsField(t *testing.T) {
	h := override(fakecatalog.New(fakecatalog.Options{}), "/products/add",
		respond(http.StatusCreated, `{"id":37,"title":"Deep Origin Pencil","price":9.99}`))

	report := runNamed(t, h, "add-product-echo")

	o := report.Outcomes[0]
	assert.Equal(t, StatusFail, o.Status)
	require.Len(t, o.Violations, 1)
	assert.Equal(t, contract.ValidatorEcho, o.Violations[0].Validator)
	assert.Equal(t, "category", o.Violations[0].Field)
}

func TestScenario_UnboundedLimitMustMatchItems(t *testing.T) {
	// echoes the requested limit instead of the number of items returned
	h := override(fakecatalog.New(fakecatalog.Options{}), "/products",
		func(w http.ResponseWriter, r *http.Request) {
			respond(http.StatusOK, `{"products":[{"id":1,"title":"Essence Mascara","category":"beauty","price":9.99}],"total":1,"skip":0,"limit":`+
				r.URL.Query().Get("limit")+`}`)(w, r)
		})

	report := runNamed(t, h, "limit-zero-returns-all", "limit-above-total")

	for _, o := range report.Outcomes {
		assert.Equal(t, StatusFail, o.Status, o.Name)
		require.Len(t, o.Violations, 1, o.Name)
		assert.Equal(t, contract.ValidatorPagination, o.Violations[0].Validator)
		assert.Equal(t, "limit", o.Violations[0].Field)
		assert.Equal(t, "1", o.Violations[0].Expected)
	}
}
