package harness

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"

	"gopkg.in/yaml.v3"
)

// SuiteFile customizes the default suite for a particular deployment of the
// catalog API:
//
//	name: staging
//	params:
//	  product_id: 2
//	  category_slug: laptops
//	include: ["*-envelope", "limit-*"]
//	exclude: ["sort-*"]
//	known_defects:
//	  sort-title-asc: false
//
// Params not named keep their default. Include and exclude are glob
// patterns over scenario names; known_defects flips the known-defect flag
// of named scenarios.
type SuiteFile struct {
	// Name labels the suite in logs.
	Name string `yaml:"name"`

	// Params overrides fixture values.
	Params Params `yaml:"params"`

	// Include keeps only scenarios matching at least one pattern.
	// Empty keeps everything.
	Include []string `yaml:"include,omitempty"`

	// Exclude drops scenarios matching any pattern. Applied after Include.
	Exclude []string `yaml:"exclude,omitempty"`

	// KnownDefects overrides the known-defect flag by scenario name.
	KnownDefects map[string]bool `yaml:"known_defects,omitempty"`
}

// LoadSuite reads and parses a suite file.
// Returns an error if the file doesn't exist, is malformed, or contains
// unknown fields (typos).
func LoadSuite(filename string) (*SuiteFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}
	sf, err := ParseSuite(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return sf, nil
}

// ParseSuite parses suite YAML over the default params.
func ParseSuite(data []byte) (*SuiteFile, error) {
	sf := &SuiteFile{Params: DefaultParams()}

	// Strict field validation catches typos like "exlude:"
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(sf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validatePatterns(sf.Include); err != nil {
		return nil, fmt.Errorf("include: %w", err)
	}
	if err := validatePatterns(sf.Exclude); err != nil {
		return nil, fmt.Errorf("exclude: %w", err)
	}
	return sf, nil
}

// Scenarios builds the default suite from the file's params and applies
// its filters and known-defect overrides.
func (f *SuiteFile) Scenarios() ([]Scenario, error) {
	all := DefaultSuite(f.Params)

	known := make(map[string]bool, len(all))
	for _, sc := range all {
		known[sc.Name] = true
	}
	var unknown []string
	for name := range f.KnownDefects {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("known_defects: unknown scenarios %v", unknown)
	}

	for i := range all {
		if flag, ok := f.KnownDefects[all[i].Name]; ok {
			all[i].KnownDefect = flag
		}
	}
	return Select(all, f.Include, f.Exclude)
}

// Select filters scenarios by name. An empty include keeps everything;
// exclude is applied after include. Order is preserved.
func Select(scenarios []Scenario, include, exclude []string) ([]Scenario, error) {
	if err := validatePatterns(include); err != nil {
		return nil, err
	}
	if err := validatePatterns(exclude); err != nil {
		return nil, err
	}

	var out []Scenario
	for _, sc := range scenarios {
		if len(include) > 0 && !matchAny(include, sc.Name) {
			continue
		}
		if matchAny(exclude, sc.Name) {
			continue
		}
		out = append(out, sc)
	}
	return out, nil
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		// Patterns are validated up front.
		if ok, _ := path.Match(p, name); ok {
			return true
		}
	}
	return false
}

func validatePatterns(patterns []string) error {
	for _, p := range patterns {
		if _, err := path.Match(p, ""); err != nil {
			return fmt.Errorf("bad pattern %q: %w", p, err)
		}
	}
	return nil
}
