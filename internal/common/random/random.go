package random

import (
	"math/rand"
	"time"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_random.go github.com/dialog-crowd/tablechat/internal/common/random Source

// Source provides the randomness the coordinator needs: candidate selection,
// scenario choice and agent role assignment.
type Source interface {
	// Intn returns a uniform value in [0, n)
	Intn(n int) int
}

// DefaultSource implements Source with a seedable math/rand generator
type DefaultSource struct {
	random *rand.Rand
}

// Config for the random source
type Config struct {
	// Optional seed for testing
	Seed int64
}

// New creates a new random source
func New(cfg *Config) *DefaultSource {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	return &DefaultSource{
		random: rand.New(rand.NewSource(seed)),
	}
}

// Intn returns a uniform value in [0, n)
func (s *DefaultSource) Intn(n int) int {
	if n < 1 {
		return 0
	}
	return s.random.Intn(n)
}
