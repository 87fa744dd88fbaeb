package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/dialog-crowd/tablechat/internal/models"
)

// ErrScenarioNotFound is returned when a scenario ID has no entry
var ErrScenarioNotFound = errors.New("scenario not found")

// Config holds configuration for the file-backed scenario store
type Config struct {
	// Path to the scenarios JSON file (an array of scenario objects)
	Path string
}

// store implements the Store interface with an in-memory map
type store struct {
	scenarios map[string]*models.Scenario
	ids       []string
}

// NewFile loads a scenario store from a JSON file produced by the scenario
// generator.
func NewFile(cfg *Config) (*store, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Path == "" {
		return nil, errors.New("scenarios file path cannot be empty")
	}

	raw, err := os.ReadFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios file: %w", err)
	}

	var scenarios []*models.Scenario
	if err := json.Unmarshal(raw, &scenarios); err != nil {
		return nil, fmt.Errorf("failed to parse scenarios file: %w", err)
	}

	return NewStatic(scenarios)
}

// NewStatic builds a store from already-loaded scenarios.
func NewStatic(scenarios []*models.Scenario) (*store, error) {
	if len(scenarios) == 0 {
		return nil, errors.New("at least one scenario is required")
	}

	byID := make(map[string]*models.Scenario, len(scenarios))
	ids := make([]string, 0, len(scenarios))

	for _, sc := range scenarios {
		if sc.UUID == "" {
			return nil, errors.New("scenario is missing a uuid")
		}
		if len(sc.Agents) != 2 {
			return nil, fmt.Errorf("scenario %s must have exactly 2 agents", sc.UUID)
		}
		if _, ok := byID[sc.UUID]; ok {
			return nil, fmt.Errorf("duplicate scenario uuid %s", sc.UUID)
		}
		byID[sc.UUID] = sc
		ids = append(ids, sc.UUID)
	}

	sort.Strings(ids)

	return &store{
		scenarios: byID,
		ids:       ids,
	}, nil
}

// GetScenario retrieves a scenario by ID
func (s *store) GetScenario(id string) (*models.Scenario, error) {
	sc, ok := s.scenarios[id]
	if !ok {
		return nil, ErrScenarioNotFound
	}
	return sc, nil
}

// IDs returns all scenario identifiers, sorted
func (s *store) IDs() []string {
	return s.ids
}
