package coordinator

import (
	"context"
	"errors"
	"fmt"

	"github.com/dialog-crowd/tablechat/internal/models"
	participantRepo "github.com/dialog-crowd/tablechat/internal/repositories/participant"
)

// PickRestaurant records a restaurant selection and resolves the outcome.
// The selection is always persisted; when both sides have committed to the
// same restaurant, both are moved to finished and awarded their private
// utility for it in one transaction.
func (s *service) PickRestaurant(ctx context.Context, input *PickRestaurantInput) (*PickRestaurantOutput, error) {
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

	restaurant := sc.Restaurant(input.RestaurantIndex)
	if restaurant == nil {
		return nil, ErrInvalidRestaurant
	}

	// Persist the selection before looking at the partner, so the partner's
	// next pick sees it even if this request stops here
	chat := models.StatusChat
	p, err = s.participantRepo.UpdateParticipant(ctx, &participantRepo.UpdateParticipantInput{
		ParticipantID: p.ID,
		Patch: &models.ParticipantPatch{
			SelectedIndex: models.IntPtr(input.RestaurantIndex),
		},
		Now:           s.clock.Now(),
		RequireStatus: &chat,
	})
	if err != nil {
		return nil, s.mapRepoError(err)
	}

	partner, err := s.participantRepo.GetParticipant(ctx, &participantRepo.GetParticipantInput{
		ParticipantID: p.PartnerID,
	})
	if err != nil {
		if errors.Is(err, participantRepo.ErrParticipantNotFound) {
			if _, err := s.endChatForOne(ctx, p, msgPartnerLeft); err != nil {
				return nil, err
			}
			return &PickRestaurantOutput{
				RestaurantName: restaurant.Name,
				Matched:        false,
				Message:        msgPartnerLeft,
			}, nil
		}
		return nil, err
	}

	if partner.Status != models.StatusChat || partner.RoomID != p.RoomID || partner.PartnerID != p.ID {
		// The partner has already moved on; never settle an outcome
		// against a row from a different pairing
		if _, err := s.endChatForOne(ctx, p, msgPartnerLeft); err != nil {
			return nil, err
		}
		return &PickRestaurantOutput{
			RestaurantName: restaurant.Name,
			Matched:        false,
			Message:        msgPartnerLeft,
		}, nil
	}

	if partner.SelectedIndex == models.NoSelection {
		return &PickRestaurantOutput{
			RestaurantName: restaurant.Name,
			Matched:        false,
			Message:        msgPartnerPicking,
		}, nil
	}

	if partner.SelectedIndex != input.RestaurantIndex {
		return &PickRestaurantOutput{
			RestaurantName: restaurant.Name,
			Matched:        false,
			Message:        msgNoMatch,
		}, nil
	}

	// Agreement: award each side its own utility for the shared pick
	myDelta := sc.AgentUtility(p.AgentIndex, input.RestaurantIndex)
	partnerDelta := sc.AgentUtility(partner.AgentIndex, input.RestaurantIndex)

	out, err := s.participantRepo.UpdatePair(ctx, &participantRepo.UpdatePairInput{
		First: &participantRepo.PairUpdate{
			ParticipantID: p.ID,
			Patch:         finishedPatch(restaurant.Name, myDelta, partnerDelta, p.CumulativePoints+myDelta),
			RequireStatus: &chat,
		},
		Second: &participantRepo.PairUpdate{
			ParticipantID: partner.ID,
			Patch:         finishedPatch(restaurant.Name, partnerDelta, myDelta, partner.CumulativePoints+partnerDelta),
			RequireStatus: &chat,
		},
		Now: s.clock.Now(),
	})
	if err != nil {
		if errors.Is(err, participantRepo.ErrTransactionConflict) ||
			errors.Is(err, participantRepo.ErrStatusMismatch) {
			// The partner's symmetric call may have finished the chat first
			current, getErr := s.participantRepo.GetParticipant(ctx, &participantRepo.GetParticipantInput{
				ParticipantID: p.ID,
			})
			if getErr != nil {
				return nil, s.mapRepoError(getErr)
			}
			if current.Status == models.StatusFinished {
				return &PickRestaurantOutput{
					RestaurantName: restaurant.Name,
					Matched:        true,
					Message:        current.Message,
				}, nil
			}
			return &PickRestaurantOutput{
				RestaurantName: restaurant.Name,
				Matched:        false,
				Message:        msgPartnerPicking,
			}, nil
		}
		return nil, err
	}

	return &PickRestaurantOutput{
		RestaurantName: restaurant.Name,
		Matched:        true,
		Message:        out.First.Message,
	}, nil
}

// finishedPatch builds the patch that concludes a matched negotiation for
// one side. The selection survives on the row for the analysis exports.
func finishedPatch(restaurantName string, ownDelta, partnerDelta, total int) *models.ParticipantPatch {
	message := fmt.Sprintf("You agreed on %s! You earned %d points (your partner earned %d).",
		restaurantName, ownDelta, partnerDelta)

	return &models.ParticipantPatch{
		Status:           models.StatusPtr(models.StatusFinished),
		Message:          models.StringPtr(message),
		RoomID:           models.IntPtr(models.NoRoom),
		PartnerID:        models.StringPtr(""),
		CumulativePoints: models.IntPtr(total),
		TouchStatus:      true,
	}
}
