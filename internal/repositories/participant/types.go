package participant

import (
	"time"

	"github.com/dialog-crowd/tablechat/internal/models"
)

// EnsureParticipantInput contains parameters for idempotent row creation
type EnsureParticipantInput struct {
	// Participant is the zeroed row written when no row exists yet
	Participant *models.Participant
}

// EnsureParticipantOutput contains the result of idempotent row creation
type EnsureParticipantOutput struct {
	// Created is true when a new row was written, false when one already existed
	Created bool
}

// GetParticipantInput contains parameters for retrieving a participant
type GetParticipantInput struct {
	ParticipantID string
}

// UpdateParticipantInput contains parameters for patching one row
type UpdateParticipantInput struct {
	ParticipantID string

	// Patch describes the fields to change
	Patch *models.ParticipantPatch

	// Now stamps any touched timestamps
	Now time.Time

	// RequireStatus, when non-nil, aborts the transaction with
	// ErrStatusMismatch unless the row holds this status at commit time
	RequireStatus *models.Status
}

// PairUpdate is one side of a two-row transaction
type PairUpdate struct {
	ParticipantID string
	Patch         *models.ParticipantPatch
	RequireStatus *models.Status
}

// UpdatePairInput contains parameters for patching two rows atomically
type UpdatePairInput struct {
	First  *PairUpdate
	Second *PairUpdate

	// Now stamps any touched timestamps on both rows
	Now time.Time
}

// UpdatePairOutput contains both updated rows
type UpdatePairOutput struct {
	First  *models.Participant
	Second *models.Participant
}

// ListWaitingInput contains parameters for listing pairing candidates
type ListWaitingInput struct {
	// ExcludeID removes the caller from the candidate set
	ExcludeID string
}

// ListWaitingOutput contains the candidate set
type ListWaitingOutput struct {
	Participants []*models.Participant
}

// NextRoomIDInput contains parameters for reserving a room identifier
type NextRoomIDInput struct{}

// NextRoomIDOutput contains the reserved room identifier
type NextRoomIDOutput struct {
	RoomID int
}
