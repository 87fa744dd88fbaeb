package coordinator

import (
	"context"
	"errors"

	"github.com/dialog-crowd/tablechat/internal/models"
	participantRepo "github.com/dialog-crowd/tablechat/internal/repositories/participant"
)

// attemptMatch tries to pair a waiting participant with another connected
// waiting participant. The candidate read is only a best-effort hint:
// correctness rests on the atomicity of the final pair write, which requires
// both rows to still be waiting at commit time. A lost race is a no-op and
// the caller simply retries on its next poll.
func (s *service) attemptMatch(ctx context.Context, p *models.Participant) (*models.Participant, error) {
	listOut, err := s.participantRepo.ListWaiting(ctx, &participantRepo.ListWaitingInput{
		ExcludeID: p.ID,
	})
	if err != nil {
		return nil, err
	}

	candidates := listOut.Participants
	if len(candidates) == 0 {
		return p, nil
	}

	candidate := candidates[s.random.Intn(len(candidates))]

	ids := s.scenarios.IDs()
	scenarioID := ids[s.random.Intn(len(ids))]

	agentIndex := s.random.Intn(2)

	roomOut, err := s.participantRepo.NextRoomID(ctx, &participantRepo.NextRoomIDInput{})
	if err != nil {
		return nil, err
	}

	waiting := models.StatusWaiting
	pairOut, err := s.participantRepo.UpdatePair(ctx, &participantRepo.UpdatePairInput{
		First: &participantRepo.PairUpdate{
			ParticipantID: p.ID,
			Patch:         chatPatch(roomOut.RoomID, candidate.ID, scenarioID, agentIndex),
			RequireStatus: &waiting,
		},
		Second: &participantRepo.PairUpdate{
			ParticipantID: candidate.ID,
			Patch:         chatPatch(roomOut.RoomID, p.ID, scenarioID, 1-agentIndex),
			RequireStatus: &waiting,
		},
		Now: s.clock.Now(),
	})
	if err != nil {
		if errors.Is(err, participantRepo.ErrTransactionConflict) ||
			errors.Is(err, participantRepo.ErrStatusMismatch) ||
			errors.Is(err, participantRepo.ErrParticipantNotFound) {
			// The candidate was grabbed first; the reserved room id is
			// burned, keeping the sequence monotonic
			return p, nil
		}
		return nil, err
	}

	return pairOut.First, nil
}

// chatPatch builds the patch that moves a participant into a fresh pairing
func chatPatch(roomID int, partnerID, scenarioID string, agentIndex int) *models.ParticipantPatch {
	return &models.ParticipantPatch{
		Status:        models.StatusPtr(models.StatusChat),
		Message:       models.StringPtr(""),
		RoomID:        models.IntPtr(roomID),
		PartnerID:     models.StringPtr(partnerID),
		ScenarioID:    models.StringPtr(scenarioID),
		AgentIndex:    models.IntPtr(agentIndex),
		SelectedIndex: models.IntPtr(models.NoSelection),
		TouchStatus:   true,
	}
}
