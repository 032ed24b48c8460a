package contract

import (
	"encoding/json"

	"github.com/roach88/catalogcheck/internal/catalog"
)

// RawEnvelope is a list envelope after validation. Items stay undecoded so
// entity validators can inspect them.
type RawEnvelope struct {
	ItemsKey string
	Items    []any
	Total    int64
	Skip     int64
	Limit    int64
}

// Envelope validates a list body: the key set must be exactly
// {itemsKey, total, skip, limit}, the counters non-negative integers and
// the items an array. The returned envelope is nil only when the body is not
// a JSON object; otherwise it holds whatever could be read.
func Envelope(body []byte, itemsKey string) (*RawEnvelope, []*Violation) {
	obj, vs := decodeObject(ValidatorEnvelope, body)
	if obj == nil {
		return nil, vs
	}

	env := &RawEnvelope{ItemsKey: itemsKey}

	out := checkFields(ValidatorEnvelope, "", obj, catalog.EnvelopeCounters, false)
	allowed := append([]string{itemsKey}, fieldNames(catalog.EnvelopeCounters)...)
	out = append(out, unexpectedKeys(ValidatorEnvelope, "", obj, allowed)...)

	env.Total = intValue(obj["total"])
	env.Skip = intValue(obj["skip"])
	env.Limit = intValue(obj["limit"])

	items, present := obj[itemsKey]
	switch list, ok := items.([]any); {
	case !present:
		out = append(out, violation(ValidatorEnvelope, itemsKey, "present array", "missing"))
	case !ok:
		out = append(out, violation(ValidatorEnvelope, itemsKey, "array", describe(items)))
	default:
		env.Items = list
	}

	return env, out
}

// intValue reads an integer json.Number, or 0.
func intValue(v any) int64 {
	n, ok := v.(json.Number)
	if !ok {
		return 0
	}
	i, err := n.Int64()
	if err != nil {
		return 0
	}
	return i
}
