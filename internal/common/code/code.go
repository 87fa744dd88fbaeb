package code

import "github.com/google/uuid"

//go:generate mockgen -package=mocks -destination=mocks/mock_code.go github.com/dialog-crowd/tablechat/internal/common/code Generator

// Generator produces completion codes handed out on the finished screen.
type Generator interface {
	NewCode() string
}

// DefaultGenerator implements the Generator interface using random UUIDs
type DefaultGenerator struct{}

func New() *DefaultGenerator {
	return &DefaultGenerator{}
}

// NewCode returns a new completion code
func (g *DefaultGenerator) NewCode() string {
	return uuid.New().String()
}
