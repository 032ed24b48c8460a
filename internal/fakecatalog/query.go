package fakecatalog

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"

	"github.com/roach88/catalogcheck/internal/catalog"
	"github.com/roach88/catalogcheck/internal/ordering"
)

// page is a validated limit/skip pair. A limit of 0 means unbounded.
type page struct {
	limit int
	skip  int
}

func parsePage(q url.Values) (page, error) {
	pg := page{limit: catalog.DefaultPageSize}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return page{}, fmt.Errorf("Invalid limit '%s'", raw)
		}
		pg.limit = n
	}
	if raw := q.Get("skip"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return page{}, fmt.Errorf("Invalid skip '%s'", raw)
		}
		pg.skip = n
	}
	return pg, nil
}

// window returns the slice of items the page selects.
func (pg page) window(items []catalog.Product) []catalog.Product {
	if pg.skip >= len(items) {
		return nil
	}
	items = items[pg.skip:]
	if pg.limit > 0 && pg.limit < len(items) {
		items = items[:pg.limit]
	}
	return items
}

// parseSelect splits the select parameter. nil means no projection.
func parseSelect(raw string) []string {
	if raw == "" {
		return nil
	}
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// project keeps id plus the selected keys that the product carries.
func project(p catalog.Product, keys []string) map[string]any {
	all := fieldsOf(p)
	out := map[string]any{"id": all["id"]}
	for _, k := range keys {
		if v, ok := all[k]; ok {
			out[k] = v
		}
	}
	return out
}

// sortProducts orders a copy of items by the sortBy key. Strings compare
// under the server's collation, numbers numerically; items lacking the key
// keep their relative position. With the sort defect enabled the order
// parameter is still validated but nothing is reordered.
func (s *Server) sortProducts(items []catalog.Product, sortBy, order string) ([]catalog.Product, error) {
	dir, err := ordering.ParseDirection(order)
	if err != nil {
		return nil, fmt.Errorf("Order can be: 'asc' or 'desc'")
	}
	desc := dir == ordering.Descending
	if sortBy == "" || s.opts.SortDefect {
		return items, nil
	}

	keys := make([]any, len(items))
	for i, p := range items {
		keys[i] = fieldsOf(p)[sortBy]
	}
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}

	col := collate.New(s.opts.Locale)
	sort.SliceStable(idx, func(a, b int) bool {
		c := compareValues(col, keys[idx[a]], keys[idx[b]])
		if desc {
			return c > 0
		}
		return c < 0
	})

	out := make([]catalog.Product, len(items))
	for i, j := range idx {
		out[i] = items[j]
	}
	return out, nil
}

// compareValues orders two decoded wire values of the same JSON type.
// Mixed or missing values compare equal.
func compareValues(col *collate.Collator, a, b any) int {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return col.CompareString(av, bv)
		}
	case json.Number:
		bv, ok := b.(json.Number)
		if !ok {
			return 0
		}
		af, _ := av.Float64()
		bf, _ := bv.Float64()
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
	}
	return 0
}
