package contract

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/roach88/catalogcheck/internal/catalog"
	"github.com/roach88/catalogcheck/internal/ordering"
)

// DeletedOnLayout is the millisecond ISO-8601 format of deletedOn.
const DeletedOnLayout = "2006-01-02T15:04:05.000Z"

var deletedOnPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`)

// ExpectedPageLength is the number of items a listing must return for a
// requested limit and skip against total. A limit of 0 means unbounded.
func ExpectedPageLength(total, skip, limit int64) int64 {
	remaining := total - skip
	if remaining < 0 {
		remaining = 0
	}
	if limit == 0 || limit > remaining {
		return remaining
	}
	return limit
}

// PageLength checks the item count of env for a requested limit and skip.
func PageLength(env *RawEnvelope, limit, skip int64) []*Violation {
	want := ExpectedPageLength(env.Total, skip, limit)
	if int64(len(env.Items)) == want {
		return nil
	}
	return []*Violation{violation(ValidatorPagination, env.ItemsKey+".length",
		fmt.Sprintf("%d items (limit=%d skip=%d total=%d)", want, limit, skip, env.Total),
		fmt.Sprintf("%d items", len(env.Items)))}
}

// Equal checks a single observed value. JSON numbers compare numerically
// against Go numeric expectations.
func Equal(validator, field string, want, got any) []*Violation {
	if sameValue(want, got) {
		return nil
	}
	return []*Violation{violation(validator, field, describeWant(want), describe(got))}
}

// Less checks got < bound.
func Less(validator, field string, got, bound int64) []*Violation {
	if got < bound {
		return nil
	}
	return []*Violation{violation(validator, field, fmt.Sprintf("< %d", bound), fmt.Sprintf("%d", got))}
}

// Empty checks that a listing returned no items.
func Empty(env *RawEnvelope) []*Violation {
	if len(env.Items) == 0 {
		return nil
	}
	return []*Violation{violation(ValidatorPagination, env.ItemsKey, "empty array", fmt.Sprintf("%d items", len(env.Items)))}
}

// NonEmpty checks that a listing returned at least one item.
func NonEmpty(env *RawEnvelope) []*Violation {
	if len(env.Items) > 0 {
		return nil
	}
	return []*Violation{violation(ValidatorPagination, env.ItemsKey, "non-empty array", "[]")}
}

// Homogeneous checks that every item carries field == want. Used for
// category-filtered listings.
func Homogeneous(env *RawEnvelope, field, want string) []*Violation {
	var out []*Violation
	for i, item := range env.Items {
		obj, _ := item.(map[string]any)
		got := obj[field]
		if s, ok := got.(string); !ok || s != want {
			out = append(out, violation(ValidatorFilter, fmt.Sprintf("%s[%d].%s", env.ItemsKey, i, field), fmt.Sprintf("%q", want), describe(got)))
		}
	}
	return out
}

// Contains checks that list includes want.
func Contains(validator, field string, list []string, want string) []*Violation {
	for _, s := range list {
		if s == want {
			return nil
		}
	}
	return []*Violation{violation(validator, field, fmt.Sprintf("to include %q", want), fmt.Sprintf("%d entries without it", len(list)))}
}

// Distinct checks that two observations differ. Chained pagination uses it
// to prove that skip moved the window.
func Distinct(validator, field string, first, second any) []*Violation {
	if !sameValue(first, second) {
		return nil
	}
	return []*Violation{violation(validator, field, "value different from "+describe(first), describe(second))}
}

// Echo checks that a simulated write echoes every submitted field. It returns
// the decoded response object.
func Echo(body []byte, want map[string]any) (map[string]any, []*Violation) {
	obj, vs := decodeObject(ValidatorEcho, body)
	if obj == nil {
		return nil, vs
	}

	keys := make([]string, 0, len(want))
	for k := range want {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []*Violation
	for _, k := range keys {
		got, present := obj[k]
		if !present {
			out = append(out, violation(ValidatorEcho, k, describeWant(want[k]), "missing"))
			continue
		}
		out = append(out, Equal(ValidatorEcho, k, want[k], got)...)
	}
	return obj, out
}

// FreshID checks that a simulated create assigned a positive integer id.
func FreshID(obj map[string]any) []*Violation {
	f, _ := catalog.Lookup(catalog.ProductFields, "id")
	return checkFields(ValidatorEcho, "", obj, []catalog.Field{f}, false)
}

// Deleted checks the synthetic fields of a simulated delete: isDeleted is
// true and deletedOn is a millisecond UTC timestamp.
func Deleted(obj map[string]any) []*Violation {
	out := checkFields(ValidatorDeletion, "", obj, catalog.DeletionFields, false)
	if len(out) > 0 {
		return out
	}

	if obj["isDeleted"] != true {
		out = append(out, violation(ValidatorDeletion, "isDeleted", "true", describe(obj["isDeleted"])))
	}

	on := obj["deletedOn"].(string)
	if !deletedOnPattern.MatchString(on) {
		out = append(out, violation(ValidatorDeletion, "deletedOn", "YYYY-MM-DDTHH:mm:ss.sssZ", fmt.Sprintf("%q", on)))
	} else if _, err := time.Parse(DeletedOnLayout, on); err != nil {
		out = append(out, violation(ValidatorDeletion, "deletedOn", "valid calendar timestamp", fmt.Sprintf("%q (%v)", on, err)))
	}
	return out
}

// Sorted checks that values honor dir under the checker's collation.
func Sorted(checker ordering.Checker, field string, values []string, dir ordering.Direction) []*Violation {
	i, ok := checker.FirstViolation(values, dir)
	if ok {
		return nil
	}
	return []*Violation{violation(ValidatorOrdering, field,
		fmt.Sprintf("%d values sorted %s", len(values), dir),
		fmt.Sprintf("%q at index %d precedes %q at index %d", values[i-1], i-1, values[i], i))}
}

// StringField collects field from every item that carries it as a string.
func StringField(env *RawEnvelope, field string) []string {
	out := make([]string, 0, len(env.Items))
	for _, item := range env.Items {
		obj, _ := item.(map[string]any)
		if s, ok := obj[field].(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Mentions checks that every item's field contains term, case-insensitively.
// Search relevance is heuristic: the service may match on other fields.
func Mentions(env *RawEnvelope, field, term string) []*Violation {
	needle := strings.ToLower(term)
	var out []*Violation
	for i, item := range env.Items {
		obj, _ := item.(map[string]any)
		s, ok := obj[field].(string)
		if !ok || !strings.Contains(strings.ToLower(s), needle) {
			out = append(out, violation(ValidatorRelevance, fmt.Sprintf("%s[%d].%s", env.ItemsKey, i, field),
				fmt.Sprintf("text containing %q", term), describe(obj[field])))
		}
	}
	return Heuristic(out)
}

// sameValue compares an expectation with a decoded JSON value.
func sameValue(want, got any) bool {
	if wn, ok := toFloat(want); ok {
		gn, ok := toFloat(got)
		return ok && wn == gn
	}
	if ws, ok := want.([]string); ok {
		list, ok := got.([]any)
		if !ok || len(list) != len(ws) {
			return false
		}
		for i := range ws {
			if s, ok := list[i].(string); !ok || s != ws[i] {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(want, got)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func describeWant(v any) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
