package contract

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed contracts.cue
var contractsCUE string

// Definitions lists the CUE definitions a body can be checked against.
var Definitions = []string{
	"#Product",
	"#ProductList",
	"#Category",
	"#Categories",
	"#Slugs",
	"#NotFound",
	"#Deleted",
}

// Schema checks captured bodies against the CUE rendition of the wire
// contracts. It complements the field-table validators when a body is
// inspected outside a scenario run.
type Schema struct {
	mu   sync.Mutex // cue.Context is not safe for concurrent use
	ctx  *cue.Context
	root cue.Value
}

// NewSchema compiles the embedded contracts.
func NewSchema() (*Schema, error) {
	ctx := cuecontext.New()
	root := ctx.CompileString(contractsCUE, cue.Filename("contracts.cue"))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("compile contracts: %w", err)
	}
	return &Schema{ctx: ctx, root: root}, nil
}

// Check unifies body with the named definition. Violations describe the
// data; the error is reserved for an unknown definition.
func (s *Schema) Check(def string, body []byte) ([]*Violation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !strings.HasPrefix(def, "#") {
		def = "#" + def
	}
	schema := s.root.LookupPath(cue.ParsePath(def))
	if !schema.Exists() {
		return nil, fmt.Errorf("unknown definition %q (known: %s)", def, strings.Join(Definitions, ", "))
	}

	data := s.ctx.CompileBytes(body, cue.Filename("body.json"))
	if err := data.Err(); err != nil {
		return []*Violation{violation(ValidatorSchema, "", "JSON document", "invalid JSON: "+err.Error())}, nil
	}

	err := schema.Unify(data).Validate(cue.Concrete(true))
	if err == nil {
		return nil, nil
	}

	var out []*Violation
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		out = append(out, violation(ValidatorSchema, strings.Join(e.Path(), "."), def, fmt.Sprintf(format, args...)))
	}
	return out, nil
}
