package batch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/combstruct/combstruct/internal/pricing"
)

var (
	// ErrNoScenarios is returned when a scenario file lists nothing.
	ErrNoScenarios = errors.New("no scenarios to process")
	// ErrInvalidScenario marks a scenario entry that could not be decoded.
	ErrInvalidScenario = errors.New("invalid scenario")
)

// Scenario is one named Selection. Fields missing from the file take the
// calculator defaults. Err is set when the entry itself could not be
// decoded; the processor reports it on the scenario's row.
type Scenario struct {
	Name      string            `yaml:"name"`
	Selection pricing.Selection `yaml:",inline"`
	Err       error             `yaml:"-"`
}

// UnmarshalYAML seeds the Selection with defaults and canonicalises enum
// spellings. Unrecognised values are kept so validation can report them.
// A malformed entry does not fail the document.
func (s *Scenario) UnmarshalYAML(node *yaml.Node) error {
	type plain Scenario
	p := plain{Selection: pricing.DefaultSelection()}
	if err := node.Decode(&p); err != nil {
		var named struct {
			Name string `yaml:"name"`
		}
		_ = node.Decode(&named)
		*s = Scenario{
			Name:      named.Name,
			Selection: pricing.DefaultSelection(),
			Err:       fmt.Errorf("%w: %s", ErrInvalidScenario, flattenYAMLError(err)),
		}
		return nil
	}

	p.Selection = p.Selection.Canonical()
	*s = Scenario(p)
	return nil
}

// flattenYAMLError joins yaml.v3's multi-line type errors into one line.
func flattenYAMLError(err error) string {
	var te *yaml.TypeError
	if errors.As(err, &te) {
		return strings.Join(te.Errors, "; ")
	}
	return err.Error()
}

type scenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// ParseScenarios decodes a scenario document. Unnamed scenarios are named
// after their 1-based position.
func ParseScenarios(r io.Reader) ([]Scenario, error) {
	var f scenarioFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoScenarios
		}
		return nil, fmt.Errorf("decoding scenarios: %w", err)
	}
	if len(f.Scenarios) == 0 {
		return nil, ErrNoScenarios
	}
	for i := range f.Scenarios {
		if strings.TrimSpace(f.Scenarios[i].Name) == "" {
			f.Scenarios[i].Name = fmt.Sprintf("scenario-%d", i+1)
		}
	}
	return f.Scenarios, nil
}

// LoadScenarios reads scenarios from path.
func LoadScenarios(path string) ([]Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scenario file: %w", err)
	}
	defer f.Close()

	return ParseScenarios(f)
}
