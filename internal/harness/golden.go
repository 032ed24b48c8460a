package harness

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// AssertGolden renders report verbosely and compares it against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Reports must be produced with a deterministic clock and run ID for the
// comparison to be stable.
func AssertGolden(t *testing.T, name string, report *Report) {
	t.Helper()

	var buf bytes.Buffer
	if err := RenderText(&buf, report, true); err != nil {
		t.Fatalf("render report: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, buf.Bytes())
}
