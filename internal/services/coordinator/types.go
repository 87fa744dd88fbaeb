package coordinator

import (
	"github.com/dialog-crowd/tablechat/internal/common/clock"
	"github.com/dialog-crowd/tablechat/internal/common/code"
	"github.com/dialog-crowd/tablechat/internal/common/random"
	"github.com/dialog-crowd/tablechat/internal/models"
	participantRepo "github.com/dialog-crowd/tablechat/internal/repositories/participant"
	scenarioRepo "github.com/dialog-crowd/tablechat/internal/repositories/scenario"
)

// Config holds configuration for the coordinator service
type Config struct {
	// Per-status time budgets in seconds. A negative budget means the
	// status never times out; zero selects the default.
	WaitingSeconds    int
	SingleTaskSeconds int
	ChatSeconds       int
	FinishedSeconds   int

	// ConnectionTimeoutSeconds is how long a disconnected participant may
	// remain disconnected before consequences apply
	ConnectionTimeoutSeconds int

	// MaxSingleTasks is the number of solo tasks after which a participant
	// is finished
	MaxSingleTasks int

	// Repository dependencies
	ParticipantRepo participantRepo.Repository
	ScenarioStore   scenarioRepo.Store

	// Service dependencies
	Clock  clock.Clock
	Random random.Source
	Codes  code.Generator
}

// EnsureParticipantInput contains parameters for first contact
type EnsureParticipantInput struct {
	ParticipantID string
}

// EnsureParticipantOutput contains the result of first contact
type EnsureParticipantOutput struct {
	// Created is true when this was genuinely the first contact
	Created bool
}

// GetEffectiveStatusInput contains parameters for resolving a status
type GetEffectiveStatusInput struct {
	ParticipantID string
}

// GetEffectiveStatusOutput contains the resolved status
type GetEffectiveStatusOutput struct {
	Status  models.Status
	Message string
}

// IsStatusUnchangedInput contains parameters for the long-poll check
type IsStatusUnchangedInput struct {
	ParticipantID string

	// AssumedStatus is the status the client last rendered
	AssumedStatus models.Status
}

// IsStatusUnchangedOutput contains the result of the long-poll check
type IsStatusUnchangedOutput struct {
	Unchanged bool

	// Status is the resolved status, for clients that want to re-render
	// without a second round trip
	Status models.Status
}

// ConnectInput contains parameters for marking a client live
type ConnectInput struct {
	ParticipantID string
}

// ConnectOutput contains the result of marking a client live
type ConnectOutput struct{}

// DisconnectInput contains parameters for marking a client gone
type DisconnectInput struct {
	ParticipantID string
}

// DisconnectOutput contains the result of marking a client gone
type DisconnectOutput struct{}

// GetWaitingInfoInput contains parameters for the waiting screen
type GetWaitingInfoInput struct {
	ParticipantID string
}

// GetWaitingInfoOutput contains the waiting screen state
type GetWaitingInfoOutput struct {
	Message string

	// SecondsRemaining until the waiting budget expires, -1 when unlimited
	SecondsRemaining int
}

// GetSingleTaskInfoInput contains parameters for the solo task screen
type GetSingleTaskInfoInput struct {
	ParticipantID string
}

// GetSingleTaskInfoOutput contains the solo task screen state
type GetSingleTaskInfoOutput struct {
	Scenario         *models.Scenario
	AgentIndex       int
	SecondsRemaining int
}

// GetChatInfoInput contains parameters for the chat screen
type GetChatInfoInput struct {
	ParticipantID string
}

// GetChatInfoOutput contains the chat screen state
type GetChatInfoOutput struct {
	RoomID           int
	AgentIndex       int
	Scenario         *models.Scenario
	SecondsRemaining int
}

// GetFinishedInfoInput contains parameters for the finished screen
type GetFinishedInfoInput struct {
	ParticipantID string

	// WantCompletionCode requests the participant's completion code,
	// generating and persisting one on first request
	WantCompletionCode bool
}

// GetFinishedInfoOutput contains the finished screen state
type GetFinishedInfoOutput struct {
	Message          string
	SecondsRemaining int
	CompletionCode   string
}

// IsChatValidInput contains parameters for re-validating a pairing
type IsChatValidInput struct {
	ParticipantID string
}

// IsChatValidOutput contains the result of re-validating a pairing
type IsChatValidOutput struct {
	Valid bool
}

// SubmitSingleTaskInput contains parameters for a solo task submission
type SubmitSingleTaskInput struct {
	ParticipantID string

	// Payload is the client's opaque task answer; the transport layer
	// records it, the coordinator only counts the submission
	Payload string
}

// SubmitSingleTaskOutput contains the result of a solo task submission
type SubmitSingleTaskOutput struct {
	Status  models.Status
	Message string
}

// PickRestaurantInput contains parameters for a restaurant selection
type PickRestaurantInput struct {
	ParticipantID   string
	RestaurantIndex int
}

// PickRestaurantOutput contains the outcome of a restaurant selection
type PickRestaurantOutput struct {
	RestaurantName string
	Matched        bool
	Message        string
}

// LeaveRoomInput contains parameters for leaving a chat
type LeaveRoomInput struct {
	ParticipantID string
}

// LeaveRoomOutput contains the result of leaving a chat
type LeaveRoomOutput struct{}
