package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/wavescan/internal/trace"
)

// Scenario defines a search conformance scenario: a trace and a list of
// steps run against it.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Trace is the path of a YAML trace fixture. Relative paths are
	// resolved against the scenario file's directory.
	Trace string `yaml:"trace,omitempty"`

	// Nets declares the trace inline, in fixture format. Exactly one of
	// Trace and Nets must be set.
	Nets []trace.FixtureNet `yaml:"nets,omitempty"`

	// Searches is the path of a CUE file of saved searches, resolved like
	// Trace.
	Searches string `yaml:"searches,omitempty"`

	// Steps run in order against the trace.
	Steps []Step `yaml:"steps"`
}

// Step operations.
const (
	OpNext     = "next"
	OpPrevious = "previous"
	OpAll      = "all"
	OpMatches  = "matches"
	OpValue    = "value"
)

// Step is a single query against the scenario trace.
type Step struct {
	// Op is one of next, previous, all, matches or value. Optional when
	// Saved is set.
	Op string `yaml:"op,omitempty"`

	// Expr is the query for search operations.
	Expr string `yaml:"expr,omitempty"`

	// Saved names a saved search from the scenario's Searches file.
	Saved string `yaml:"saved,omitempty"`

	// Net is the net reference for the value operation, e.g. addr[7:0].
	Net string `yaml:"net,omitempty"`

	// At is the query time. Defaults to 0, or to the saved search's start.
	At *int64 `yaml:"at,omitempty"`

	// To bounds the all operation (exclusive). Defaults to one past the
	// last transition.
	To *int64 `yaml:"to,omitempty"`

	// Radix formats value results (2 if unset).
	Radix int `yaml:"radix,omitempty"`

	// Expect is the expected outcome.
	Expect Expect `yaml:"expect"`
}

// Expect holds the expected outcome of a step. Only the field matching the
// step's operation is compared, unless Error is set.
type Expect struct {
	Time  *int64  `yaml:"time,omitempty"`
	Times []int64 `yaml:"times,omitempty"`
	Match *bool   `yaml:"match,omitempty"`
	Value string  `yaml:"value,omitempty"`

	// Error is the expected parse error code, e.g. UNKNOWN_NET.
	Error string `yaml:"error,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
//
// Trace and Searches paths are resolved relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "step:" vs "steps:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	scenario.Trace = resolvePath(base, scenario.Trace)
	scenario.Searches = resolvePath(base, scenario.Searches)

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if (s.Trace == "") == (len(s.Nets) == 0) {
		return fmt.Errorf("exactly one of trace and nets is required")
	}

	if s.Trace != "" {
		if _, err := os.Stat(s.Trace); os.IsNotExist(err) {
			return fmt.Errorf("trace file not found: %s", s.Trace)
		}
	}

	if s.Searches != "" {
		if _, err := os.Stat(s.Searches); os.IsNotExist(err) {
			return fmt.Errorf("searches file not found: %s", s.Searches)
		}
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i := range s.Steps {
		if err := validateStep(i, &s.Steps[i], s.Searches != ""); err != nil {
			return err
		}
	}

	return nil
}

// validateStep validates a single step based on its operation.
func validateStep(index int, st *Step, haveSearches bool) error {
	if st.Saved != "" {
		if !haveSearches {
			return fmt.Errorf("steps[%d]: saved search %q requires a searches file", index, st.Saved)
		}
		if st.Op != "" || st.Expr != "" || st.Net != "" {
			return fmt.Errorf("steps[%d]: saved search cannot also set op, expr or net", index)
		}
		return nil
	}

	switch st.Op {
	case OpNext, OpPrevious, OpAll, OpMatches:
		if st.Expr == "" {
			return fmt.Errorf("steps[%d]: expr is required for %s", index, st.Op)
		}
		if st.Net != "" {
			return fmt.Errorf("steps[%d]: net is only valid for value", index)
		}
	case OpValue:
		if st.Net == "" {
			return fmt.Errorf("steps[%d]: net is required for value", index)
		}
		if st.Expr != "" {
			return fmt.Errorf("steps[%d]: expr is not valid for value", index)
		}
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, st.Op)
	}

	if st.To != nil && st.Op != OpAll {
		return fmt.Errorf("steps[%d]: to is only valid for all", index)
	}
	if st.Radix != 0 && st.Op != OpValue {
		return fmt.Errorf("steps[%d]: radix is only valid for value", index)
	}
	switch st.Radix {
	case 0, 2, 8, 10, 16:
	default:
		return fmt.Errorf("steps[%d]: unsupported radix %d", index, st.Radix)
	}

	return nil
}
