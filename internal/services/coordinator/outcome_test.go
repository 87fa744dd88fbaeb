package coordinator

import (
	"time"

	"github.com/dialog-crowd/tablechat/internal/models"
)

func (s *CoordinatorTestSuite) TestPickRestaurantFirstPickerWaitsForPartner() {
	s.pair("alice", "bob")

	out, err := s.svc.PickRestaurant(s.ctx, &PickRestaurantInput{
		ParticipantID:   "alice",
		RestaurantIndex: 0,
	})
	s.Require().NoError(err)
	s.False(out.Matched)
	s.Equal("Taqueria Azul", out.RestaurantName)
	s.Equal(msgPartnerPicking, out.Message)

	alice := s.get("alice")
	s.Equal(models.StatusChat, alice.Status)
	s.Equal(0, alice.SelectedIndex)
}

func (s *CoordinatorTestSuite) TestPickRestaurantMatchAwardsUtility() {
	s.pair("alice", "bob")

	// alice got agent role 0, bob role 1 (the mocked Intn always picks 0)
	s.Require().Equal(0, s.get("alice").AgentIndex)
	s.Require().Equal(1, s.get("bob").AgentIndex)

	_, err := s.svc.PickRestaurant(s.ctx, &PickRestaurantInput{
		ParticipantID:   "alice",
		RestaurantIndex: 0,
	})
	s.Require().NoError(err)

	out, err := s.svc.PickRestaurant(s.ctx, &PickRestaurantInput{
		ParticipantID:   "bob",
		RestaurantIndex: 0,
	})
	s.Require().NoError(err)
	s.True(out.Matched)
	s.Equal("You agreed on Taqueria Azul! You earned 3 points (your partner earned 7).", out.Message)

	alice := s.get("alice")
	bob := s.get("bob")
	s.Equal(models.StatusFinished, alice.Status)
	s.Equal(models.StatusFinished, bob.Status)
	s.Equal(7, alice.CumulativePoints)
	s.Equal(3, bob.CumulativePoints)
	s.Equal(models.NoRoom, alice.RoomID)
	s.Empty(alice.PartnerID)
	// The agreed selection survives on the row
	s.Equal(0, alice.SelectedIndex)
	s.Equal(0, bob.SelectedIndex)
}

func (s *CoordinatorTestSuite) TestPickRestaurantMismatchKeepsNegotiating() {
	s.pair("alice", "bob")

	_, err := s.svc.PickRestaurant(s.ctx, &PickRestaurantInput{
		ParticipantID:   "alice",
		RestaurantIndex: 0,
	})
	s.Require().NoError(err)

	out, err := s.svc.PickRestaurant(s.ctx, &PickRestaurantInput{
		ParticipantID:   "bob",
		RestaurantIndex: 1,
	})
	s.Require().NoError(err)
	s.False(out.Matched)
	s.Equal(msgNoMatch, out.Message)

	alice := s.get("alice")
	bob := s.get("bob")
	s.Equal(models.StatusChat, alice.Status)
	s.Equal(models.StatusChat, bob.Status)
	s.Equal(0, alice.SelectedIndex)
	s.Equal(1, bob.SelectedIndex)
	s.Equal(0, alice.CumulativePoints)
	s.Equal(0, bob.CumulativePoints)
}

func (s *CoordinatorTestSuite) TestPickRestaurantChangedMindResolvesLateAgreement() {
	s.pair("alice", "bob")

	_, err := s.svc.PickRestaurant(s.ctx, &PickRestaurantInput{
		ParticipantID:   "alice",
		RestaurantIndex: 0,
	})
	s.Require().NoError(err)

	_, err = s.svc.PickRestaurant(s.ctx, &PickRestaurantInput{
		ParticipantID:   "bob",
		RestaurantIndex: 1,
	})
	s.Require().NoError(err)

	// alice comes around to bob's pick
	out, err := s.svc.PickRestaurant(s.ctx, &PickRestaurantInput{
		ParticipantID:   "alice",
		RestaurantIndex: 1,
	})
	s.Require().NoError(err)
	s.True(out.Matched)

	s.Equal(1, s.get("alice").CumulativePoints)
	s.Equal(7, s.get("bob").CumulativePoints)
}

func (s *CoordinatorTestSuite) TestPickRestaurantInvalidIndex() {
	s.pair("alice", "bob")

	_, err := s.svc.PickRestaurant(s.ctx, &PickRestaurantInput{
		ParticipantID:   "alice",
		RestaurantIndex: 5,
	})
	s.Require().ErrorIs(err, ErrInvalidRestaurant)

	_, err = s.svc.PickRestaurant(s.ctx, &PickRestaurantInput{
		ParticipantID:   "alice",
		RestaurantIndex: -1,
	})
	s.Require().ErrorIs(err, ErrInvalidRestaurant)
}

func (s *CoordinatorTestSuite) TestPickRestaurantOutsideChat() {
	s.ensure("alice")

	_, err := s.svc.PickRestaurant(s.ctx, &PickRestaurantInput{
		ParticipantID:   "alice",
		RestaurantIndex: 0,
	})
	s.Require().ErrorIs(err, ErrUnexpectedStatus)
}

func (s *CoordinatorTestSuite) TestPickRestaurantNoDoubleAward() {
	s.pair("alice", "bob")

	_, err := s.svc.PickRestaurant(s.ctx, &PickRestaurantInput{
		ParticipantID:   "alice",
		RestaurantIndex: 0,
	})
	s.Require().NoError(err)

	_, err = s.svc.PickRestaurant(s.ctx, &PickRestaurantInput{
		ParticipantID:   "bob",
		RestaurantIndex: 0,
	})
	s.Require().NoError(err)

	// A repeated pick after settlement never pays out again
	_, err = s.svc.PickRestaurant(s.ctx, &PickRestaurantInput{
		ParticipantID:   "alice",
		RestaurantIndex: 0,
	})
	s.Require().ErrorIs(err, ErrUnexpectedStatus)
	s.Equal(7, s.get("alice").CumulativePoints)
}

func (s *CoordinatorTestSuite) TestPickRestaurantPartnerTimedOutOfChat() {
	s.pair("alice", "bob")

	// bob's client dies and his row is resolved out of the chat
	_, err := s.svc.Disconnect(s.ctx, &DisconnectInput{ParticipantID: "bob"})
	s.Require().NoError(err)
	s.advance((testConnTimeout + 1) * time.Second)
	_, err = s.svc.GetEffectiveStatus(s.ctx, &GetEffectiveStatusInput{ParticipantID: "bob"})
	s.Require().NoError(err)
	s.Require().Equal(models.StatusWaiting, s.get("bob").Status)

	out, err := s.svc.PickRestaurant(s.ctx, &PickRestaurantInput{
		ParticipantID:   "alice",
		RestaurantIndex: 0,
	})
	s.Require().NoError(err)
	s.False(out.Matched)
	s.Equal(msgPartnerLeft, out.Message)

	alice := s.get("alice")
	s.Equal(models.StatusWaiting, alice.Status)
	s.Equal(models.NoRoom, alice.RoomID)
	s.Equal(0, alice.CumulativePoints)
}
