package scenario

import (
	"github.com/dialog-crowd/tablechat/internal/models"
)

// Store is a read-only lookup from scenario identifier to negotiation
// scenario. Implementations are immutable after construction and safe for
// concurrent use.
type Store interface {
	// GetScenario retrieves a scenario by ID
	GetScenario(id string) (*models.Scenario, error)

	// IDs returns all scenario identifiers, sorted
	IDs() []string
}
