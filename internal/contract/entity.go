package contract

import (
	"fmt"
	"sort"

	"github.com/roach88/catalogcheck/internal/catalog"
)

// Product validates one product value found at path. Core fields must be
// present with the right type and rule; extended fields are checked only
// when present. Unknown keys are allowed.
func Product(path string, v any) []*Violation {
	obj, ok := v.(map[string]any)
	if !ok {
		return []*Violation{violation(ValidatorProduct, path, "object", describe(v))}
	}
	return checkFields(ValidatorProduct, path, obj, catalog.ProductFields, false)
}

// Products validates every item of a listing, naming fields
// "products[3].price".
func Products(itemsKey string, items []any) []*Violation {
	var out []*Violation
	for i, item := range items {
		out = append(out, Product(fmt.Sprintf("%s[%d]", itemsKey, i), item)...)
	}
	return out
}

// ProductBody validates a single-product body and returns the decoded
// object for further checks.
func ProductBody(body []byte) (map[string]any, []*Violation) {
	obj, vs := decodeObject(ValidatorProduct, body)
	if obj == nil {
		return nil, vs
	}
	return obj, Product("", obj)
}

// Category validates one category: exactly {slug, name, url}, all text.
func Category(path string, v any) []*Violation {
	obj, ok := v.(map[string]any)
	if !ok {
		return []*Violation{violation(ValidatorCategory, path, "object", describe(v))}
	}
	return checkFields(ValidatorCategory, path, obj, catalog.CategoryFields, true)
}

// Categories validates the categories view: a non-empty array of categories.
func Categories(body []byte) []*Violation {
	v, err := Decode(body)
	if err != nil {
		return []*Violation{violation(ValidatorCategory, "", "JSON array", "invalid JSON: "+err.Error())}
	}
	list, ok := v.([]any)
	if !ok {
		return []*Violation{violation(ValidatorCategory, "", "array of categories", describe(v))}
	}
	if len(list) == 0 {
		return []*Violation{violation(ValidatorCategory, "", "non-empty array", "[]")}
	}

	var out []*Violation
	for i, item := range list {
		out = append(out, Category(fmt.Sprintf("[%d]", i), item)...)
	}
	return out
}

// Slugs validates the flat slug view, a non-empty array of strings, and
// returns the slugs that are strings.
func Slugs(body []byte) ([]string, []*Violation) {
	v, err := Decode(body)
	if err != nil {
		return nil, []*Violation{violation(ValidatorSlugs, "", "JSON array", "invalid JSON: "+err.Error())}
	}
	list, ok := v.([]any)
	if !ok {
		return nil, []*Violation{violation(ValidatorSlugs, "", "array of string", describe(v))}
	}

	var out []*Violation
	if len(list) == 0 {
		out = append(out, violation(ValidatorSlugs, "", "non-empty array", "[]"))
	}

	slugs := make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			out = append(out, violation(ValidatorSlugs, fmt.Sprintf("[%d]", i), "string", describe(item)))
			continue
		}
		slugs = append(slugs, s)
	}
	return slugs, out
}

// Keys checks that an object carries exactly the given keys.
func Keys(validator, path string, v any, want []string) []*Violation {
	obj, ok := v.(map[string]any)
	if !ok {
		return []*Violation{violation(validator, path, "object", describe(v))}
	}

	var out []*Violation
	sorted := append([]string(nil), want...)
	sort.Strings(sorted)
	for _, k := range sorted {
		if _, present := obj[k]; !present {
			out = append(out, violation(validator, join(path, k), "present", "missing"))
		}
	}
	return append(out, unexpectedKeys(validator, path, obj, want)...)
}
