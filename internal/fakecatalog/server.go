// Package fakecatalog is an in-process reference implementation of the
// product catalog API. It serves a fixed seed catalog, honors the documented
// pagination, search, projection and sort parameters, and simulates writes
// without mutating anything.
//
// It exists so the verification suite can run offline and so its tests have
// a server whose behavior is known. Options can switch on the sort defect
// observed on the public service.
package fakecatalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/text/language"

	"github.com/roach88/catalogcheck/internal/catalog"
)

// Options configures a Server.
type Options struct {
	// SortDefect makes listings ignore sortBy and order, reproducing the
	// live service's behavior.
	SortDefect bool

	// Clock stamps simulated deletes. Defaults to time.Now.
	Clock func() time.Time

	// Logger receives one line per request. Defaults to discard.
	Logger *slog.Logger

	// Locale is the collation used for string sorts. Defaults to English.
	Locale language.Tag
}

// Server is the reference catalog. It is immutable after New and safe for
// concurrent use.
type Server struct {
	opts       Options
	products   []catalog.Product
	byID       map[int64]catalog.Product
	categories []category
	router     *mux.Router
}

// New builds a server over the seed catalog.
func New(opts Options) *Server {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Locale == language.Und {
		opts.Locale = language.English
	}

	s := &Server{
		opts:       opts,
		products:   seedProducts(),
		categories: seedCategories,
	}
	s.byID = make(map[int64]catalog.Product, len(s.products))
	for _, p := range s.products {
		s.byID[p.ID] = p
	}
	s.router = s.routes()
	return s
}

// routes registers the API. Literal paths under /products are registered
// before /products/{id} so they are not captured as ids.
func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests(s.opts.Logger))

	r.HandleFunc("/products", s.listProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/search", s.searchProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/categories", s.listCategories).Methods(http.MethodGet)
	r.HandleFunc("/products/category-list", s.listCategorySlugs).Methods(http.MethodGet)
	r.HandleFunc("/products/category/{slug}", s.listByCategory).Methods(http.MethodGet)
	r.HandleFunc("/products/add", s.addProduct).Methods(http.MethodPost)

	r.HandleFunc("/products/{id}", s.getProduct).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", s.updateProduct).Methods(http.MethodPut, http.MethodPatch)
	r.HandleFunc("/products/{id}", s.deleteProduct).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Route not found")
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Total is the number of products in the catalog.
func (s *Server) Total() int {
	return len(s.products)
}

// Products returns a copy of the catalog in id order.
func (s *Server) Products() []catalog.Product {
	return append([]catalog.Product(nil), s.products...)
}

// Slugs returns the category slugs in catalog order.
func (s *Server) Slugs() []string {
	out := make([]string, len(s.categories))
	for i, c := range s.categories {
		out[i] = c.slug
	}
	return out
}

// ListenAndServe serves the catalog on addr until ctx is cancelled or the
// listener fails. Cancellation shuts the server down gracefully and returns
// nil.
func ListenAndServe(ctx context.Context, addr string, s *Server) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.opts.Logger.Info("reference catalog listening", "addr", addr, "products", s.Total(), "sort_defect", s.opts.SortDefect)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// logRequests logs method, path, status and latency for every request.
func logRequests(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"status", rec.status,
				"elapsed", time.Since(start),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
