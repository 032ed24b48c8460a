package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/roach88/catalogcheck/internal/catalog"
)

const maxActualLen = 80

// Decode parses a JSON body keeping numbers as json.Number.
func Decode(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}

// decodeObject decodes body and requires a JSON object.
func decodeObject(validator string, body []byte) (map[string]any, []*Violation) {
	v, err := Decode(body)
	if err != nil {
		return nil, []*Violation{violation(validator, "", "JSON object", "invalid JSON: "+err.Error())}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, []*Violation{violation(validator, "", "JSON object", describe(v))}
	}
	return obj, nil
}

// checkFields validates obj against a field table. With exact set,
// keys outside the table are violations too.
func checkFields(validator, path string, obj map[string]any, fields []catalog.Field, exact bool) []*Violation {
	var out []*Violation

	for _, f := range fields {
		name := join(path, f.Name)
		val, present := obj[f.Name]
		if !present {
			if f.Core {
				out = append(out, violation(validator, name, "present "+f.Kind.String(), "missing"))
			}
			continue
		}
		out = append(out, checkValue(validator, name, val, f)...)
	}

	if exact {
		out = append(out, unexpectedKeys(validator, path, obj, fieldNames(fields))...)
	}
	return out
}

// checkValue validates one present value against its field definition.
func checkValue(validator, name string, val any, f catalog.Field) []*Violation {
	if !hasKind(val, f.Kind) {
		return []*Violation{violation(validator, name, f.Kind.String(), describe(val))}
	}
	if v := checkRule(validator, name, val, f); v != nil {
		return []*Violation{v}
	}

	switch f.Kind {
	case catalog.KindObject:
		return checkFields(validator, name, val.(map[string]any), f.Fields, false)
	case catalog.KindObjectList:
		var out []*Violation
		for i, elem := range val.([]any) {
			out = append(out, checkFields(validator, fmt.Sprintf("%s[%d]", name, i), elem.(map[string]any), f.Fields, false)...)
		}
		return out
	}
	return nil
}

func checkRule(validator, name string, val any, f catalog.Field) *Violation {
	switch f.Rule {
	case catalog.RulePositive, catalog.RuleNonNegative:
		n, err := val.(json.Number).Float64()
		if err != nil {
			return violation(validator, name, f.Kind.String(), describe(val))
		}
		if (f.Rule == catalog.RulePositive && n <= 0) || (f.Rule == catalog.RuleNonNegative && n < 0) {
			return violation(validator, name, fmt.Sprintf("%s %s", f.Kind, f.Rule), describe(val))
		}
	case catalog.RuleNonEmpty:
		if val.(string) == "" {
			return violation(validator, name, "non-empty string", `""`)
		}
	}
	return nil
}

// hasKind reports whether val carries the JSON type k. JSON null never
// matches.
func hasKind(val any, k catalog.Kind) bool {
	switch k {
	case catalog.KindInteger:
		n, ok := val.(json.Number)
		if !ok {
			return false
		}
		_, err := n.Int64()
		return err == nil
	case catalog.KindNumber:
		_, ok := val.(json.Number)
		return ok
	case catalog.KindString:
		_, ok := val.(string)
		return ok
	case catalog.KindBool:
		_, ok := val.(bool)
		return ok
	case catalog.KindStringList:
		list, ok := val.([]any)
		if !ok {
			return false
		}
		for _, e := range list {
			if _, ok := e.(string); !ok {
				return false
			}
		}
		return true
	case catalog.KindObject:
		_, ok := val.(map[string]any)
		return ok
	case catalog.KindObjectList:
		list, ok := val.([]any)
		if !ok {
			return false
		}
		for _, e := range list {
			if _, ok := e.(map[string]any); !ok {
				return false
			}
		}
		return true
	}
	return false
}

// unexpectedKeys reports keys of obj not in allowed, sorted for stable output.
func unexpectedKeys(validator, path string, obj map[string]any, allowed []string) []*Violation {
	set := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		set[k] = true
	}

	var extra []string
	for k := range obj {
		if !set[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)

	out := make([]*Violation, 0, len(extra))
	for _, k := range extra {
		out = append(out, violation(validator, join(path, k), "no such key", "unexpected key with value "+describe(obj[k])))
	}
	return out
}

func fieldNames(fields []catalog.Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

// describe renders an actual value for a violation message.
func describe(v any) string {
	if v == nil {
		return "null"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	s := string(data)
	if len(s) > maxActualLen {
		s = s[:maxActualLen] + "..."
	}
	return fmt.Sprintf("%s (%s)", s, jsonType(v))
}

func jsonType(v any) string {
	switch val := v.(type) {
	case json.Number:
		if _, err := val.Int64(); err == nil {
			return "integer"
		}
		return "number"
	case string:
		return "string"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
