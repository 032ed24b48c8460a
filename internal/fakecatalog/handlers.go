package fakecatalog

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/roach88/catalogcheck/internal/catalog"
	"github.com/roach88/catalogcheck/internal/contract"
)

// listBody is the wire envelope. Products is never null.
type listBody struct {
	Products []any `json:"products"`
	Total    int   `json:"total"`
	Skip     int   `json:"skip"`
	Limit    int   `json:"limit"`
}

// listProducts handles GET /products
func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	s.writeListing(w, r, s.products)
}

// searchProducts handles GET /products/search
func (s *Server) searchProducts(w http.ResponseWriter, r *http.Request) {
	term := strings.ToLower(r.URL.Query().Get("q"))

	var matches []catalog.Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Title), term) ||
			(p.Description != nil && strings.Contains(strings.ToLower(*p.Description), term)) {
			matches = append(matches, p)
		}
	}
	s.writeListing(w, r, matches)
}

// listCategories handles GET /products/categories
func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	base := "http://" + r.Host
	if r.TLS != nil {
		base = "https://" + r.Host
	}

	out := make([]catalog.Category, len(s.categories))
	for i, c := range s.categories {
		out[i] = catalog.Category{
			Slug: c.slug,
			Name: c.name,
			URL:  base + "/products/category/" + c.slug,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// listCategorySlugs handles GET /products/category-list
func (s *Server) listCategorySlugs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Slugs())
}

// listByCategory handles GET /products/category/{slug}
// An unknown slug yields an empty listing, not a 404.
func (s *Server) listByCategory(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	var matches []catalog.Product
	for _, p := range s.products {
		if p.Category == slug {
			matches = append(matches, p)
		}
	}
	s.writeListing(w, r, matches)
}

// getProduct handles GET /products/{id}
func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// addProduct handles POST /products/add
// The response echoes the payload under the next free id. Nothing is stored.
func (s *Server) addProduct(w http.ResponseWriter, r *http.Request) {
	payload, ok := readPayload(w, r)
	if !ok {
		return
	}
	payload["id"] = len(s.products) + 1
	writeJSON(w, http.StatusCreated, payload)
}

// updateProduct handles PUT and PATCH /products/{id}
// The response is the stored product overlaid with the payload. Nothing is
// stored.
func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := s.lookup(w, r)
	if !ok {
		return
	}
	payload, ok := readPayload(w, r)
	if !ok {
		return
	}

	out := fieldsOf(p)
	for k, v := range payload {
		if k == "id" {
			continue
		}
		out[k] = v
	}
	writeJSON(w, http.StatusOK, out)
}

// deleteProduct handles DELETE /products/{id}
func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, catalog.DeletedProduct{
		Product:   p,
		IsDeleted: true,
		DeletedOn: s.opts.Clock().UTC().Format(contract.DeletedOnLayout),
	})
}

// lookup resolves the {id} route variable, writing the documented 404 body
// when it does not name a product.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (catalog.Product, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err == nil {
		if p, ok := s.byID[id]; ok {
			return p, true
		}
	}
	writeMessage(w, http.StatusNotFound, contract.NotFoundMessage("Product", raw))
	return catalog.Product{}, false
}

// writeListing applies paging, sorting and projection to items and writes
// the envelope. The reported limit is the number of items returned.
func (s *Server) writeListing(w http.ResponseWriter, r *http.Request, items []catalog.Product) {
	q := r.URL.Query()

	pg, err := parsePage(q)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err = s.sortProducts(items, q.Get("sortBy"), q.Get("order"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	keys := parseSelect(q.Get("select"))

	window := pg.window(items)
	body := listBody{
		Products: make([]any, 0, len(window)),
		Total:    len(items),
		Skip:     pg.skip,
		Limit:    len(window),
	}
	for _, p := range window {
		if keys == nil {
			body.Products = append(body.Products, p)
			continue
		}
		body.Products = append(body.Products, project(p, keys))
	}
	writeJSON(w, http.StatusOK, body)
}

// readPayload decodes a write body as a JSON object, keeping numbers as
// sent so they are echoed verbatim.
func readPayload(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil || payload == nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return nil, false
	}
	return payload, true
}

// fieldsOf converts a product to its wire map.
func fieldsOf(p catalog.Product) map[string]any {
	data, err := json.Marshal(p)
	if err != nil {
		panic(err) // catalog.Product always marshals
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		panic(err)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, catalog.NotFound{Message: msg})
}
