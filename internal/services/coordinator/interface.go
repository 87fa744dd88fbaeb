package coordinator

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/dialog-crowd/tablechat/internal/services/coordinator Service

// Service defines the session state coordinator: it owns each participant's
// lifecycle state, enforces per-status time budgets, pairs waiting
// participants into rooms and resolves negotiation outcomes. State
// transitions commit as single atomic writes against the participant ledger,
// so a lost race never leaves a half-applied transition.
type Service interface {
	// EnsureParticipant idempotently creates a participant on first contact
	EnsureParticipant(ctx context.Context, input *EnsureParticipantInput) (*EnsureParticipantOutput, error)

	// GetEffectiveStatus resolves timeouts and returns the participant's current status
	GetEffectiveStatus(ctx context.Context, input *GetEffectiveStatusInput) (*GetEffectiveStatusOutput, error)

	// IsStatusUnchanged reports whether the client's assumed status still holds,
	// attempting matchmaking when the resolved status is waiting
	IsStatusUnchanged(ctx context.Context, input *IsStatusUnchangedInput) (*IsStatusUnchangedOutput, error)

	// Connect marks the participant's client as live
	Connect(ctx context.Context, input *ConnectInput) (*ConnectOutput, error)

	// Disconnect marks the participant's client as gone
	Disconnect(ctx context.Context, input *DisconnectInput) (*DisconnectOutput, error)

	// GetWaitingInfo returns the waiting-screen state
	GetWaitingInfo(ctx context.Context, input *GetWaitingInfoInput) (*GetWaitingInfoOutput, error)

	// GetSingleTaskInfo returns the solo-task-screen state
	GetSingleTaskInfo(ctx context.Context, input *GetSingleTaskInfoInput) (*GetSingleTaskInfoOutput, error)

	// GetChatInfo returns the chat-screen state
	GetChatInfo(ctx context.Context, input *GetChatInfoInput) (*GetChatInfoOutput, error)

	// GetFinishedInfo returns the finished-screen state
	GetFinishedInfo(ctx context.Context, input *GetFinishedInfoInput) (*GetFinishedInfoOutput, error)

	// IsChatValid re-validates that the pairing is still live, applying
	// leave consequences when it is not
	IsChatValid(ctx context.Context, input *IsChatValidInput) (*IsChatValidOutput, error)

	// SubmitSingleTask records a completed solo task
	SubmitSingleTask(ctx context.Context, input *SubmitSingleTaskInput) (*SubmitSingleTaskOutput, error)

	// PickRestaurant records a restaurant selection and resolves the outcome
	PickRestaurant(ctx context.Context, input *PickRestaurantInput) (*PickRestaurantOutput, error)

	// LeaveRoom ends the chat for the caller and their partner
	LeaveRoom(ctx context.Context, input *LeaveRoomInput) (*LeaveRoomOutput, error)
}
