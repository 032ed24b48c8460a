package client

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/catalogcheck/internal/catalog"
)

// DecodeProducts decodes a product listing body.
func DecodeProducts(r *Response) (catalog.ListResponse[catalog.Product], error) {
	var list catalog.ProductList
	if err := decode(r, &list); err != nil {
		return catalog.ListResponse[catalog.Product]{}, err
	}
	return list.Envelope(), nil
}

// DecodeProduct decodes a single product body.
func DecodeProduct(r *Response) (catalog.Product, error) {
	var p catalog.Product
	err := decode(r, &p)
	return p, err
}

// DecodeDeleted decodes a simulated delete body.
func DecodeDeleted(r *Response) (catalog.DeletedProduct, error) {
	var d catalog.DeletedProduct
	err := decode(r, &d)
	return d, err
}

// DecodeCategories decodes the categories view.
func DecodeCategories(r *Response) ([]catalog.Category, error) {
	var cats []catalog.Category
	err := decode(r, &cats)
	return cats, err
}

// DecodeSlugs decodes the flat slug list.
func DecodeSlugs(r *Response) ([]string, error) {
	var slugs []string
	err := decode(r, &slugs)
	return slugs, err
}

// DecodeNotFound decodes the documented error body.
func DecodeNotFound(r *Response) (catalog.NotFound, error) {
	var nf catalog.NotFound
	err := decode(r, &nf)
	return nf, err
}

func decode(r *Response, v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%s: decode %T: %w", r.Request, v, err)
	}
	return nil
}
