package coordinator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	clockMocks "github.com/dialog-crowd/tablechat/internal/common/clock/mocks"
	codeMocks "github.com/dialog-crowd/tablechat/internal/common/code/mocks"
	randomMocks "github.com/dialog-crowd/tablechat/internal/common/random/mocks"
	"github.com/dialog-crowd/tablechat/internal/models"
	participantRepo "github.com/dialog-crowd/tablechat/internal/repositories/participant"
	repoMocks "github.com/dialog-crowd/tablechat/internal/repositories/participant/mocks"
	scenarioRepo "github.com/dialog-crowd/tablechat/internal/repositories/scenario"
)

func (s *CoordinatorTestSuite) TestMatchmakingPairsSymmetrically() {
	s.pair("alice", "bob")

	alice := s.get("alice")
	bob := s.get("bob")

	s.Equal(models.StatusChat, alice.Status)
	s.Equal(models.StatusChat, bob.Status)
	s.Equal(alice.RoomID, bob.RoomID)
	s.NotEqual(models.NoRoom, alice.RoomID)
	s.Equal("bob", alice.PartnerID)
	s.Equal("alice", bob.PartnerID)
	s.Equal("scenario-1", alice.ScenarioID)
	s.Equal("scenario-1", bob.ScenarioID)
	s.Equal(1, alice.AgentIndex+bob.AgentIndex)
	s.Equal(models.NoSelection, alice.SelectedIndex)
	s.Equal(models.NoSelection, bob.SelectedIndex)
}

func (s *CoordinatorTestSuite) TestMatchmakingNoCandidates() {
	s.ensure("alice")

	out, err := s.svc.IsStatusUnchanged(s.ctx, &IsStatusUnchangedInput{
		ParticipantID: "alice",
		AssumedStatus: models.StatusWaiting,
	})
	s.Require().NoError(err)
	s.True(out.Unchanged)
	s.Equal(models.StatusWaiting, out.Status)
}

func (s *CoordinatorTestSuite) TestMatchmakingSkipsDisconnectedCandidates() {
	s.ensure("alice")
	s.ensure("bob")

	_, err := s.svc.Disconnect(s.ctx, &DisconnectInput{ParticipantID: "bob"})
	s.Require().NoError(err)

	out, err := s.svc.IsStatusUnchanged(s.ctx, &IsStatusUnchangedInput{
		ParticipantID: "alice",
		AssumedStatus: models.StatusWaiting,
	})
	s.Require().NoError(err)
	s.True(out.Unchanged)
	s.Equal(models.StatusWaiting, s.get("alice").Status)
}

func (s *CoordinatorTestSuite) TestMatchmakingRoomIDsNeverReused() {
	s.pair("alice", "bob")
	firstRoom := s.get("alice").RoomID

	_, err := s.svc.LeaveRoom(s.ctx, &LeaveRoomInput{ParticipantID: "alice"})
	s.Require().NoError(err)

	s.pair("alice", "bob")
	secondRoom := s.get("alice").RoomID

	s.Greater(secondRoom, firstRoom)
}

// TestMatchmakingLostRaceIsNoOp drives the pair write into a transaction
// conflict and verifies the caller is simply left waiting for the next poll.
func TestMatchmakingLostRaceIsNoOp(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	mockRepo := repoMocks.NewMockRepository(mockCtrl)
	mockClock := clockMocks.NewMockClock(mockCtrl)
	mockRandom := randomMocks.NewMockSource(mockCtrl)
	mockCodes := codeMocks.NewMockGenerator(mockCtrl)

	now := time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC)
	mockClock.EXPECT().Now().Return(now).AnyTimes()
	mockRandom.EXPECT().Intn(gomock.Any()).Return(0).AnyTimes()

	store, err := scenarioRepo.NewStatic(testScenarios())
	require.NoError(t, err)

	svc, err := New(&Config{
		WaitingSeconds:           testWaitingSeconds,
		SingleTaskSeconds:        testSingleTaskSeconds,
		ChatSeconds:              testChatSeconds,
		FinishedSeconds:          testFinishedSeconds,
		ConnectionTimeoutSeconds: testConnTimeout,
		MaxSingleTasks:           testMaxSingleTasks,
		ParticipantRepo:          mockRepo,
		ScenarioStore:            store,
		Clock:                    mockClock,
		Random:                   mockRandom,
		Codes:                    mockCodes,
	})
	require.NoError(t, err)

	caller := &models.Participant{
		ID:                 "alice",
		Status:             models.StatusWaiting,
		StatusTimestamp:    now,
		Connected:          true,
		ConnectedTimestamp: now,
		RoomID:             models.NoRoom,
		SelectedIndex:      models.NoSelection,
	}
	candidate := &models.Participant{
		ID:                 "bob",
		Status:             models.StatusWaiting,
		StatusTimestamp:    now,
		Connected:          true,
		ConnectedTimestamp: now,
		RoomID:             models.NoRoom,
		SelectedIndex:      models.NoSelection,
	}

	mockRepo.EXPECT().
		GetParticipant(gomock.Any(), &participantRepo.GetParticipantInput{ParticipantID: "alice"}).
		Return(caller, nil)

	mockRepo.EXPECT().
		ListWaiting(gomock.Any(), &participantRepo.ListWaitingInput{ExcludeID: "alice"}).
		Return(&participantRepo.ListWaitingOutput{
			Participants: []*models.Participant{candidate},
		}, nil)

	mockRepo.EXPECT().
		NextRoomID(gomock.Any(), gomock.Any()).
		Return(&participantRepo.NextRoomIDOutput{RoomID: 5}, nil)

	// Another poll grabbed bob between the listing and the commit
	mockRepo.EXPECT().
		UpdatePair(gomock.Any(), gomock.Any()).
		Return(nil, participantRepo.ErrTransactionConflict)

	out, err := svc.IsStatusUnchanged(context.Background(), &IsStatusUnchangedInput{
		ParticipantID: "alice",
		AssumedStatus: models.StatusWaiting,
	})
	require.NoError(t, err)
	assert.True(t, out.Unchanged)
	assert.Equal(t, models.StatusWaiting, out.Status)
}
