package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFound_Exact(t *testing.T) {
	body := []byte(`{"message":"Product with id '99999' not found"}`)
	assert.Empty(t, NotFound(body, "Product", 99999))
}

func TestNotFound_Violations(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{"wrong id", `{"message":"Product with id '1' not found"}`, []string{"message"}},
		{"extra key", `{"message":"Product with id '99999' not found","code":404}`, []string{"code"}},
		{"missing message", `{"error":"not found"}`, []string{"error", "message"}},
		{"numeric message", `{"message":404}`, []string{"message"}},
		{"not an object", `"Product with id '99999' not found"`, []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs := NotFound([]byte(tt.body), "Product", 99999)
			assert.Equal(t, tt.fields, fields(vs))
			for _, v := range vs {
				assert.Equal(t, ValidatorNotFound, v.Validator)
			}
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "Product with id 'abc' not found", NotFoundMessage("Product", "abc"))
}

func TestNotFound_ReportsExpectedMessage(t *testing.T) {
	vs := NotFound([]byte(`{"message":"nope"}`), "Product", 7)
	require.Len(t, vs, 1)
	assert.Equal(t, `"Product with id '7' not found"`, vs[0].Expected)
	assert.Equal(t, `"nope"`, vs[0].Actual)
}
