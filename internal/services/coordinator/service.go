package coordinator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dialog-crowd/tablechat/internal/common/clock"
	"github.com/dialog-crowd/tablechat/internal/common/code"
	"github.com/dialog-crowd/tablechat/internal/common/random"
	"github.com/dialog-crowd/tablechat/internal/models"
	participantRepo "github.com/dialog-crowd/tablechat/internal/repositories/participant"
	scenarioRepo "github.com/dialog-crowd/tablechat/internal/repositories/scenario"
)

// Default time budgets (seconds)
const (
	defaultWaitingSeconds           = 30
	defaultSingleTaskSeconds        = 300
	defaultChatSeconds              = 420
	defaultFinishedSeconds          = 60
	defaultConnectionTimeoutSeconds = 15
	defaultMaxSingleTasks           = 5
)

// Messages surfaced to participants
const (
	msgWaiting        = "Waiting for a partner..."
	msgTaskAssigned   = "No partner found yet. Please complete this task while you wait."
	msgTaskSubmitted  = "Task submitted. Waiting for a partner..."
	msgAllTasksDone   = "You have completed all available tasks. Thank you for participating!"
	msgChatExpired    = "Time expired before you and your partner agreed on a restaurant."
	msgPartnerTimeout = "Your partner seems to have disconnected. We will find you a new partner."
	msgPartnerLeft    = "Your partner left the chat. We will find you a new partner."
	msgYouLeft        = "You left the chat."
	msgTaskExpired    = "The task expired. Waiting for a partner..."
	msgPartnerPicking = "Waiting for your partner to pick a restaurant."
	msgNoMatch        = "You and your partner picked different restaurants. Keep negotiating!"
)

// service implements the Service interface
type service struct {
	config          *Config
	participantRepo participantRepo.Repository
	scenarios       scenarioRepo.Store
	clock           clock.Clock
	random          random.Source
	codes           code.Generator
}

// New creates a new coordinator service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.ParticipantRepo == nil {
		return nil, ErrNilParticipantRepo
	}

	if cfg.ScenarioStore == nil {
		return nil, ErrNilScenarioStore
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.Random == nil {
		return nil, ErrNilRandom
	}

	if cfg.Codes == nil {
		return nil, ErrNilCodeGenerator
	}

	// Zero budgets select the defaults; negative budgets disable the
	// status timeout and are kept as-is
	if cfg.WaitingSeconds == 0 {
		cfg.WaitingSeconds = defaultWaitingSeconds
	}
	if cfg.SingleTaskSeconds == 0 {
		cfg.SingleTaskSeconds = defaultSingleTaskSeconds
	}
	if cfg.ChatSeconds == 0 {
		cfg.ChatSeconds = defaultChatSeconds
	}
	if cfg.FinishedSeconds == 0 {
		cfg.FinishedSeconds = defaultFinishedSeconds
	}
	if cfg.ConnectionTimeoutSeconds == 0 {
		cfg.ConnectionTimeoutSeconds = defaultConnectionTimeoutSeconds
	}
	if cfg.MaxSingleTasks == 0 {
		cfg.MaxSingleTasks = defaultMaxSingleTasks
	}

	return &service{
		config:          cfg,
		participantRepo: cfg.ParticipantRepo,
		scenarios:       cfg.ScenarioStore,
		clock:           cfg.Clock,
		random:          cfg.Random,
		codes:           cfg.Codes,
	}, nil
}

// EnsureParticipant idempotently creates a participant on first contact
func (s *service) EnsureParticipant(ctx context.Context, input *EnsureParticipantInput) (*EnsureParticipantOutput, error) {
	if input == nil || input.ParticipantID == "" {
		return nil, errors.New("input and participant ID cannot be empty")
	}

	now := s.clock.Now()
	out, err := s.participantRepo.EnsureParticipant(ctx, &participantRepo.EnsureParticipantInput{
		Participant: &models.Participant{
			ID:                 input.ParticipantID,
			Status:             models.StatusWaiting,
			StatusTimestamp:    now,
			Connected:          true,
			ConnectedTimestamp: now,
			Message:            msgWaiting,
			RoomID:             models.NoRoom,
			SelectedIndex:      models.NoSelection,
		},
	})
	if err != nil {
		return nil, err
	}

	return &EnsureParticipantOutput{
		Created: out.Created,
	}, nil
}

// GetEffectiveStatus resolves timeouts and returns the participant's current status
func (s *service) GetEffectiveStatus(ctx context.Context, input *GetEffectiveStatusInput) (*GetEffectiveStatusOutput, error) {
	if input == nil || input.ParticipantID == "" {
		return nil, errors.New("input and participant ID cannot be empty")
	}

	p, err := s.getResolved(ctx, input.ParticipantID)
	if err != nil {
		return nil, err
	}

	return &GetEffectiveStatusOutput{
		Status:  p.Status,
		Message: p.Message,
	}, nil
}

// IsStatusUnchanged reports whether the client's assumed status still holds,
// attempting matchmaking when the resolved status is waiting
func (s *service) IsStatusUnchanged(ctx context.Context, input *IsStatusUnchangedInput) (*IsStatusUnchangedOutput, error) {
	if input == nil || input.ParticipantID == "" {
		return nil, errors.New("input and participant ID cannot be empty")
	}

	p, err := s.getResolved(ctx, input.ParticipantID)
	if err != nil {
		return nil, err
	}

	if p.Status == models.StatusWaiting {
		p, err = s.attemptMatch(ctx, p)
		if err != nil {
			return nil, err
		}
	}

	return &IsStatusUnchangedOutput{
		Unchanged: p.Status == input.AssumedStatus,
		Status:    p.Status,
	}, nil
}

// Connect marks the participant's client as live
func (s *service) Connect(ctx context.Context, input *ConnectInput) (*ConnectOutput, error) {
	if input == nil || input.ParticipantID == "" {
		return nil, errors.New("input and participant ID cannot be empty")
	}

	if err := s.setConnected(ctx, input.ParticipantID, true); err != nil {
		return nil, err
	}

	return &ConnectOutput{}, nil
}

// Disconnect marks the participant's client as gone
func (s *service) Disconnect(ctx context.Context, input *DisconnectInput) (*DisconnectOutput, error) {
	if input == nil || input.ParticipantID == "" {
		return nil, errors.New("input and participant ID cannot be empty")
	}

	if err := s.setConnected(ctx, input.ParticipantID, false); err != nil {
		return nil, err
	}

	return &DisconnectOutput{}, nil
}

// GetWaitingInfo returns the waiting-screen state
func (s *service) GetWaitingInfo(ctx context.Context, input *GetWaitingInfoInput) (*GetWaitingInfoOutput, error) {
	if input == nil || input.ParticipantID == "" {
		return nil, errors.New("input and participant ID cannot be empty")
	}

	p, err := s.getResolved(ctx, input.ParticipantID)
	if err != nil {
		return nil, err
	}

	if p.Status != models.StatusWaiting {
		return nil, ErrUnexpectedStatus
	}

	return &GetWaitingInfoOutput{
		Message:          p.Message,
		SecondsRemaining: s.remainingSeconds(p.StatusTimestamp, s.config.WaitingSeconds),
	}, nil
}

// GetSingleTaskInfo returns the solo-task-screen state
func (s *service) GetSingleTaskInfo(ctx context.Context, input *GetSingleTaskInfoInput) (*GetSingleTaskInfoOutput, error) {
	if input == nil || input.ParticipantID == "" {
		return nil, errors.New("input and participant ID cannot be empty")
	}

	p, err := s.getResolved(ctx, input.ParticipantID)
	if err != nil {
		return nil, err
	}

	if p.Status != models.StatusSingleTask {
		return nil, ErrUnexpectedStatus
	}

	sc, err := s.scenarios.GetScenario(p.SingleTaskID)
	if err != nil {
		return nil, ErrUnknownScenario
	}

	return &GetSingleTaskInfoOutput{
		Scenario:         sc,
		AgentIndex:       p.AgentIndex,
		SecondsRemaining: s.remainingSeconds(p.StatusTimestamp, s.config.SingleTaskSeconds),
	}, nil
}

// GetChatInfo returns the chat-screen state
func (s *service) GetChatInfo(ctx context.Context, input *GetChatInfoInput) (*GetChatInfoOutput, error) {
	if input == nil || input.ParticipantID == "" {
		return nil, errors.New("input and participant ID cannot be empty")
	}

	p, err := s.getResolved(ctx, input.ParticipantID)
	if err != nil {
		return nil, err
	}

	if p.Status != models.StatusChat {
		return nil, ErrUnexpectedStatus
	}

	sc, err := s.scenarios.GetScenario(p.ScenarioID)
	if err != nil {
		return nil, ErrUnknownScenario
	}

	return &GetChatInfoOutput{
		RoomID:           p.RoomID,
		AgentIndex:       p.AgentIndex,
		Scenario:         sc,
		SecondsRemaining: s.remainingSeconds(p.StatusTimestamp, s.config.ChatSeconds),
	}, nil
}

// GetFinishedInfo returns the finished-screen state
func (s *service) GetFinishedInfo(ctx context.Context, input *GetFinishedInfoInput) (*GetFinishedInfoOutput, error) {
	if input == nil || input.ParticipantID == "" {
		return nil, errors.New("input and participant ID cannot be empty")
	}

	p, err := s.getResolved(ctx, input.ParticipantID)
	if err != nil {
		return nil, err
	}

	if p.Status != models.StatusFinished {
		return nil, ErrUnexpectedStatus
	}

	out := &GetFinishedInfoOutput{
		Message:          p.Message,
		SecondsRemaining: s.remainingSeconds(p.StatusTimestamp, s.config.FinishedSeconds),
	}

	if input.WantCompletionCode {
		if p.CompletionCode == "" {
			finished := models.StatusFinished
			updated, err := s.participantRepo.UpdateParticipant(ctx, &participantRepo.UpdateParticipantInput{
				ParticipantID: p.ID,
				Patch: &models.ParticipantPatch{
					CompletionCode: models.StringPtr(s.codes.NewCode()),
				},
				Now:           s.clock.Now(),
				RequireStatus: &finished,
			})
			if err != nil {
				return nil, s.mapRepoError(err)
			}
			p = updated
		}
		out.CompletionCode = p.CompletionCode
	}

	return out, nil
}

// IsChatValid re-validates that the pairing is still live. When the partner
// has left, timed out or is otherwise inconsistent, the caller is moved back
// to waiting with an explanatory message and false is returned.
func (s *service) IsChatValid(ctx context.Context, input *IsChatValidInput) (*IsChatValidOutput, error) {
	if input == nil || input.ParticipantID == "" {
		return nil, errors.New("input and participant ID cannot be empty")
	}

	p, err := s.getResolved(ctx, input.ParticipantID)
	if err != nil {
		return nil, err
	}

	if p.Status != models.StatusChat {
		return &IsChatValidOutput{Valid: false}, nil
	}

	partner, err := s.participantRepo.GetParticipant(ctx, &participantRepo.GetParticipantInput{
		ParticipantID: p.PartnerID,
	})
	if err != nil {
		if errors.Is(err, participantRepo.ErrParticipantNotFound) {
			// Partner row missing while we still claim chat: treat as
			// the partner having left, not as a crash
			if _, err := s.endChatForOne(ctx, p, msgPartnerLeft); err != nil {
				return nil, err
			}
			return &IsChatValidOutput{Valid: false}, nil
		}
		return nil, err
	}

	if partner.Status != models.StatusChat || partner.RoomID != p.RoomID || partner.PartnerID != p.ID {
		if _, err := s.endChatForOne(ctx, p, msgPartnerLeft); err != nil {
			return nil, err
		}
		return &IsChatValidOutput{Valid: false}, nil
	}

	if s.connectionExpired(partner, s.clock.Now()) {
		if _, err := s.endChatForOne(ctx, p, msgPartnerTimeout); err != nil {
			return nil, err
		}
		return &IsChatValidOutput{Valid: false}, nil
	}

	return &IsChatValidOutput{Valid: true}, nil
}

// SubmitSingleTask records a completed solo task
func (s *service) SubmitSingleTask(ctx context.Context, input *SubmitSingleTaskInput) (*SubmitSingleTaskOutput, error) {
	if input == nil || input.ParticipantID == "" {
		return nil, errors.New("input and participant ID cannot be empty")
	}

	p, err := s.getResolved(ctx, input.ParticipantID)
	if err != nil {
		return nil, err
	}

	if p.Status != models.StatusSingleTask {
		return nil, ErrUnexpectedStatus
	}

	completed := p.NumSingleTasksCompleted + 1

	nextStatus := models.StatusWaiting
	message := msgTaskSubmitted
	if completed >= s.config.MaxSingleTasks {
		nextStatus = models.StatusFinished
		message = msgAllTasksDone
	}

	singleTask := models.StatusSingleTask
	updated, err := s.participantRepo.UpdateParticipant(ctx, &participantRepo.UpdateParticipantInput{
		ParticipantID: p.ID,
		Patch: &models.ParticipantPatch{
			Status:                  models.StatusPtr(nextStatus),
			Message:                 models.StringPtr(message),
			SingleTaskID:            models.StringPtr(""),
			NumSingleTasksCompleted: models.IntPtr(completed),
			TouchStatus:             true,
		},
		Now:           s.clock.Now(),
		RequireStatus: &singleTask,
	})
	if err != nil {
		return nil, s.mapRepoError(err)
	}

	return &SubmitSingleTaskOutput{
		Status:  updated.Status,
		Message: updated.Message,
	}, nil
}

// LeaveRoom ends the chat for the caller and their partner
func (s *service) LeaveRoom(ctx context.Context, input *LeaveRoomInput) (*LeaveRoomOutput, error) {
	if input == nil || input.ParticipantID == "" {
		return nil, errors.New("input and participant ID cannot be empty")
	}

	p, err := s.getResolved(ctx, input.ParticipantID)
	if err != nil {
		return nil, err
	}

	if p.Status != models.StatusChat {
		return nil, ErrUnexpectedStatus
	}

	if err := s.endChatForBoth(ctx, p, msgYouLeft, msgPartnerLeft); err != nil {
		return nil, err
	}

	return &LeaveRoomOutput{}, nil
}

// getResolved fetches a row and applies any pending timeout transitions
func (s *service) getResolved(ctx context.Context, id string) (*models.Participant, error) {
	p, err := s.participantRepo.GetParticipant(ctx, &participantRepo.GetParticipantInput{
		ParticipantID: id,
	})
	if err != nil {
		return nil, s.mapRepoError(err)
	}

	return s.resolve(ctx, p)
}

// resolve applies the lazy timeout model: connection timeouts and status
// timeouts are discovered and acted on whenever a row is read, so no
// background sweeper is needed.
func (s *service) resolve(ctx context.Context, p *models.Participant) (*models.Participant, error) {
	now := s.clock.Now()

	if s.connectionExpired(p, now) {
		return s.handleConnectionTimeout(ctx, p)
	}

	if s.statusExpired(p, now) {
		return s.handleStatusTimeout(ctx, p)
	}

	return p, nil
}

// connectionExpired reports whether the participant's disconnection budget ran out
func (s *service) connectionExpired(p *models.Participant, now time.Time) bool {
	if p.Connected {
		return false
	}
	return now.Sub(p.ConnectedTimestamp) > time.Duration(s.config.ConnectionTimeoutSeconds)*time.Second
}

// statusExpired reports whether the participant's status budget ran out
func (s *service) statusExpired(p *models.Participant, now time.Time) bool {
	budget := s.statusBudget(p.Status)
	if budget < 0 {
		return false
	}
	return now.Sub(p.StatusTimestamp) > time.Duration(budget)*time.Second
}

// statusBudget returns the configured budget for a status in seconds.
// An unrecognized status is an internal-consistency failure.
func (s *service) statusBudget(status models.Status) int {
	switch status {
	case models.StatusWaiting:
		return s.config.WaitingSeconds
	case models.StatusSingleTask:
		return s.config.SingleTaskSeconds
	case models.StatusChat:
		return s.config.ChatSeconds
	case models.StatusFinished:
		return s.config.FinishedSeconds
	default:
		panic(fmt.Sprintf("unknown participant status %q", status))
	}
}

// handleConnectionTimeout applies the connection-timeout transition for the
// participant's current status. The re-armed row always comes back connected.
func (s *service) handleConnectionTimeout(ctx context.Context, p *models.Participant) (*models.Participant, error) {
	current := p.Status
	now := s.clock.Now()

	var patch *models.ParticipantPatch

	switch p.Status {
	case models.StatusWaiting:
		// Re-arm: the participant starts waiting afresh
		patch = &models.ParticipantPatch{
			Status:                  models.StatusPtr(models.StatusWaiting),
			Connected:               models.BoolPtr(true),
			Message:                 models.StringPtr(msgWaiting),
			NumSingleTasksCompleted: models.IntPtr(0),
			TouchStatus:             true,
			TouchConnected:          true,
		}

	case models.StatusSingleTask:
		patch = &models.ParticipantPatch{
			Status:                  models.StatusPtr(models.StatusWaiting),
			Connected:               models.BoolPtr(true),
			Message:                 models.StringPtr(msgWaiting),
			SingleTaskID:            models.StringPtr(""),
			NumSingleTasksCompleted: models.IntPtr(0),
			TouchStatus:             true,
			TouchConnected:          true,
		}

	case models.StatusChat:
		// The caller fell out of their own chat; the partner discovers the
		// broken pairing on their next read
		patch = endChatPatch(msgWaiting)
		patch.Connected = models.BoolPtr(true)
		patch.NumSingleTasksCompleted = models.IntPtr(0)
		patch.TouchConnected = true

	case models.StatusFinished:
		// Nothing to abandon; just re-arm the connection
		patch = &models.ParticipantPatch{
			Connected:      models.BoolPtr(true),
			TouchConnected: true,
		}

	default:
		panic(fmt.Sprintf("unknown participant status %q", p.Status))
	}

	updated, err := s.participantRepo.UpdateParticipant(ctx, &participantRepo.UpdateParticipantInput{
		ParticipantID: p.ID,
		Patch:         patch,
		Now:           now,
		RequireStatus: &current,
	})
	if err != nil {
		return s.reloadOnRace(ctx, p.ID, err)
	}

	return updated, nil
}

// handleStatusTimeout applies the status-timeout transition for the
// participant's current status.
func (s *service) handleStatusTimeout(ctx context.Context, p *models.Participant) (*models.Participant, error) {
	current := p.Status
	now := s.clock.Now()

	switch p.Status {
	case models.StatusWaiting:
		// Nobody showed up: assign a solo filler task
		ids := s.scenarios.IDs()
		taskID := ids[s.random.Intn(len(ids))]
		agentIndex := s.random.Intn(2)

		updated, err := s.participantRepo.UpdateParticipant(ctx, &participantRepo.UpdateParticipantInput{
			ParticipantID: p.ID,
			Patch: &models.ParticipantPatch{
				Status:       models.StatusPtr(models.StatusSingleTask),
				Message:      models.StringPtr(msgTaskAssigned),
				SingleTaskID: models.StringPtr(taskID),
				AgentIndex:   models.IntPtr(agentIndex),
				TouchStatus:  true,
			},
			Now:           now,
			RequireStatus: &current,
		})
		if err != nil {
			return s.reloadOnRace(ctx, p.ID, err)
		}
		return updated, nil

	case models.StatusSingleTask:
		updated, err := s.participantRepo.UpdateParticipant(ctx, &participantRepo.UpdateParticipantInput{
			ParticipantID: p.ID,
			Patch: &models.ParticipantPatch{
				Status:       models.StatusPtr(models.StatusWaiting),
				Message:      models.StringPtr(msgTaskExpired),
				SingleTaskID: models.StringPtr(""),
				TouchStatus:  true,
			},
			Now:           now,
			RequireStatus: &current,
		})
		if err != nil {
			return s.reloadOnRace(ctx, p.ID, err)
		}
		return updated, nil

	case models.StatusChat:
		// The chat ran out of time for both sides
		if err := s.endChatForBoth(ctx, p, msgChatExpired, msgChatExpired); err != nil {
			return nil, err
		}
		return s.participantRepo.GetParticipant(ctx, &participantRepo.GetParticipantInput{
			ParticipantID: p.ID,
		})

	case models.StatusFinished:
		updated, err := s.participantRepo.UpdateParticipant(ctx, &participantRepo.UpdateParticipantInput{
			ParticipantID: p.ID,
			Patch: &models.ParticipantPatch{
				Status:                  models.StatusPtr(models.StatusWaiting),
				Message:                 models.StringPtr(""),
				NumSingleTasksCompleted: models.IntPtr(0),
				CompletionCode:          models.StringPtr(""),
				TouchStatus:             true,
			},
			Now:           now,
			RequireStatus: &current,
		})
		if err != nil {
			return s.reloadOnRace(ctx, p.ID, err)
		}
		return updated, nil

	default:
		panic(fmt.Sprintf("unknown participant status %q", p.Status))
	}
}

// endChatForBoth moves the caller and their partner back to waiting in one
// transaction. When the partner row is already gone or inconsistent, the
// caller is moved alone.
func (s *service) endChatForBoth(ctx context.Context, p *models.Participant, selfMessage, partnerMessage string) error {
	chat := models.StatusChat

	if p.PartnerID != "" {
		_, err := s.participantRepo.UpdatePair(ctx, &participantRepo.UpdatePairInput{
			First: &participantRepo.PairUpdate{
				ParticipantID: p.ID,
				Patch:         endChatPatch(selfMessage),
				RequireStatus: &chat,
			},
			Second: &participantRepo.PairUpdate{
				ParticipantID: p.PartnerID,
				Patch:         endChatPatch(partnerMessage),
				RequireStatus: &chat,
			},
			Now: s.clock.Now(),
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, participantRepo.ErrParticipantNotFound) &&
			!errors.Is(err, participantRepo.ErrStatusMismatch) &&
			!errors.Is(err, participantRepo.ErrTransactionConflict) {
			return err
		}
		// Partner already moved on; fall through to end the chat for the
		// caller alone
	}

	_, err := s.endChatForOne(ctx, p, selfMessage)
	return err
}

// endChatForOne moves only the caller back to waiting
func (s *service) endChatForOne(ctx context.Context, p *models.Participant, message string) (*models.Participant, error) {
	chat := models.StatusChat
	updated, err := s.participantRepo.UpdateParticipant(ctx, &participantRepo.UpdateParticipantInput{
		ParticipantID: p.ID,
		Patch:         endChatPatch(message),
		Now:           s.clock.Now(),
		RequireStatus: &chat,
	})
	if err != nil {
		return s.reloadOnRace(ctx, p.ID, err)
	}
	return updated, nil
}

// endChatPatch builds the patch that takes a participant out of a chat
func endChatPatch(message string) *models.ParticipantPatch {
	return &models.ParticipantPatch{
		Status:        models.StatusPtr(models.StatusWaiting),
		Message:       models.StringPtr(message),
		RoomID:        models.IntPtr(models.NoRoom),
		PartnerID:     models.StringPtr(""),
		ScenarioID:    models.StringPtr(""),
		SelectedIndex: models.IntPtr(models.NoSelection),
		TouchStatus:   true,
	}
}

// setConnected flips the liveness flag, stamping the connected timestamp
func (s *service) setConnected(ctx context.Context, id string, connected bool) error {
	_, err := s.participantRepo.UpdateParticipant(ctx, &participantRepo.UpdateParticipantInput{
		ParticipantID: id,
		Patch: &models.ParticipantPatch{
			Connected:      models.BoolPtr(connected),
			TouchConnected: true,
		},
		Now: s.clock.Now(),
	})
	if err != nil {
		if errors.Is(err, participantRepo.ErrTransactionConflict) {
			// A racing operation already rewrote the row; the flag will be
			// refreshed on the client's next poll
			return nil
		}
		return s.mapRepoError(err)
	}
	return nil
}

// reloadOnRace resolves lost transitions: when a concurrent operation beat
// this one to the row, the freshly committed state wins and is returned as-is.
func (s *service) reloadOnRace(ctx context.Context, id string, cause error) (*models.Participant, error) {
	if errors.Is(cause, participantRepo.ErrTransactionConflict) ||
		errors.Is(cause, participantRepo.ErrStatusMismatch) {
		p, err := s.participantRepo.GetParticipant(ctx, &participantRepo.GetParticipantInput{
			ParticipantID: id,
		})
		if err != nil {
			return nil, s.mapRepoError(err)
		}
		return p, nil
	}
	return nil, s.mapRepoError(cause)
}

// remainingSeconds computes the budget left for a status entered at ts;
// -1 means the status never times out
func (s *service) remainingSeconds(ts time.Time, budget int) int {
	if budget < 0 {
		return -1
	}
	remaining := budget - int(s.clock.Now().Sub(ts).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// mapRepoError translates repository sentinels into coordinator errors
func (s *service) mapRepoError(err error) error {
	if errors.Is(err, participantRepo.ErrParticipantNotFound) {
		return ErrParticipantNotFound
	}
	if errors.Is(err, participantRepo.ErrStatusMismatch) {
		return ErrUnexpectedStatus
	}
	return err
}
