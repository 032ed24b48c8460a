package contract

import "fmt"

// NotFoundMessage is the documented message for an unknown identifier.
func NotFoundMessage(entity string, id any) string {
	return fmt.Sprintf("%s with id '%v' not found", entity, id)
}

// NotFound validates a not-found body: exactly
// {"message": "<Entity> with id '<id>' not found"}.
func NotFound(body []byte, entity string, id any) []*Violation {
	obj, vs := decodeObject(ValidatorNotFound, body)
	if obj == nil {
		return vs
	}

	out := unexpectedKeys(ValidatorNotFound, "", obj, []string{"message"})

	want := NotFoundMessage(entity, id)
	msg, present := obj["message"]
	switch s, ok := msg.(string); {
	case !present:
		out = append(out, violation(ValidatorNotFound, "message", fmt.Sprintf("%q", want), "missing"))
	case !ok:
		out = append(out, violation(ValidatorNotFound, "message", "string", describe(msg)))
	case s != want:
		out = append(out, violation(ValidatorNotFound, "message", fmt.Sprintf("%q", want), fmt.Sprintf("%q", s)))
	}
	return out
}
