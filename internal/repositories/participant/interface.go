package participant

import (
	"context"

	"github.com/dialog-crowd/tablechat/internal/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/dialog-crowd/tablechat/internal/repositories/participant Repository

// Repository defines the interface for the participant ledger, the single
// system of record. Every mutation is one atomic transaction; multi-row
// updates either commit for both rows or for neither.
type Repository interface {
	// EnsureParticipant idempotently creates a ledger row
	EnsureParticipant(ctx context.Context, input *EnsureParticipantInput) (*EnsureParticipantOutput, error)

	// GetParticipant retrieves a participant by ID
	GetParticipant(ctx context.Context, input *GetParticipantInput) (*models.Participant, error)

	// UpdateParticipant applies a patch to one row under an optimistic transaction
	UpdateParticipant(ctx context.Context, input *UpdateParticipantInput) (*models.Participant, error)

	// UpdatePair applies two patches to two rows in a single all-or-nothing transaction
	UpdatePair(ctx context.Context, input *UpdatePairInput) (*UpdatePairOutput, error)

	// ListWaiting retrieves all connected participants in the waiting status
	ListWaiting(ctx context.Context, input *ListWaitingInput) (*ListWaitingOutput, error)

	// NextRoomID reserves the next room identifier, strictly monotonic
	NextRoomID(ctx context.Context, input *NextRoomIDInput) (*NextRoomIDOutput, error)
}
