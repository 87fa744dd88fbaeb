package coordinator

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	clockMocks "github.com/dialog-crowd/tablechat/internal/common/clock/mocks"
	codeMocks "github.com/dialog-crowd/tablechat/internal/common/code/mocks"
	randomMocks "github.com/dialog-crowd/tablechat/internal/common/random/mocks"
	"github.com/dialog-crowd/tablechat/internal/models"
	participantRepo "github.com/dialog-crowd/tablechat/internal/repositories/participant"
	scenarioRepo "github.com/dialog-crowd/tablechat/internal/repositories/scenario"
)

// Budgets used across the coordinator suites
const (
	testWaitingSeconds    = 5
	testSingleTaskSeconds = 60
	testChatSeconds       = 100
	testFinishedSeconds   = 30
	testConnTimeout       = 10
	testMaxSingleTasks    = 2
)

// testScenarios builds the fixture used across the coordinator suites.
// Agent 0 prefers Taqueria Azul (utility 7 vs 1), agent 1 prefers Golden
// Lotus (utility 7 vs 3).
func testScenarios() []*models.Scenario {
	return []*models.Scenario{
		{
			UUID: "scenario-1",
			Restaurants: []models.Restaurant{
				{Name: "Taqueria Azul", Cuisine: "mexican", PriceRange: [2]int{10, 20}},
				{Name: "Golden Lotus", Cuisine: "chinese", PriceRange: [2]int{20, 30}},
			},
			Agents: []models.Agent{
				{
					SpendingFunc: []models.SpendingPreference{
						{PriceRange: [2]int{10, 20}, Utility: 4},
						{PriceRange: [2]int{20, 30}, Utility: 1},
					},
					CuisineFunc: []models.CuisinePreference{
						{Cuisine: "mexican", Utility: 3},
						{Cuisine: "chinese", Utility: 0},
					},
				},
				{
					SpendingFunc: []models.SpendingPreference{
						{PriceRange: [2]int{10, 20}, Utility: 2},
						{PriceRange: [2]int{20, 30}, Utility: 5},
					},
					CuisineFunc: []models.CuisinePreference{
						{Cuisine: "mexican", Utility: 1},
						{Cuisine: "chinese", Utility: 2},
					},
				},
			},
		},
	}
}

// CoordinatorTestSuite runs the coordinator against a real miniredis-backed
// ledger so the transactional behavior under test is the real thing; time,
// randomness and codes are mocked for determinism.
type CoordinatorTestSuite struct {
	suite.Suite
	mr         *miniredis.Miniredis
	client     *redis.Client
	repo       participantRepo.Repository
	mockCtrl   *gomock.Controller
	mockClock  *clockMocks.MockClock
	mockRandom *randomMocks.MockSource
	mockCodes  *codeMocks.MockGenerator
	svc        Service
	ctx        context.Context

	now time.Time
}

func (s *CoordinatorTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := participantRepo.NewRedis(&participantRepo.Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	store, err := scenarioRepo.NewStatic(testScenarios())
	s.Require().NoError(err)

	s.mockCtrl = gomock.NewController(s.T())
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.mockRandom = randomMocks.NewMockSource(s.mockCtrl)
	s.mockCodes = codeMocks.NewMockGenerator(s.mockCtrl)

	s.now = time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC)
	s.mockClock.EXPECT().Now().DoAndReturn(func() time.Time { return s.now }).AnyTimes()
	s.mockRandom.EXPECT().Intn(gomock.Any()).Return(0).AnyTimes()

	svc, err := New(&Config{
		WaitingSeconds:           testWaitingSeconds,
		SingleTaskSeconds:        testSingleTaskSeconds,
		ChatSeconds:              testChatSeconds,
		FinishedSeconds:          testFinishedSeconds,
		ConnectionTimeoutSeconds: testConnTimeout,
		MaxSingleTasks:           testMaxSingleTasks,
		ParticipantRepo:          s.repo,
		ScenarioStore:            store,
		Clock:                    s.mockClock,
		Random:                   s.mockRandom,
		Codes:                    s.mockCodes,
	})
	s.Require().NoError(err)
	s.svc = svc

	s.ctx = context.Background()
}

func (s *CoordinatorTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
	s.client.Close()
	s.mr.Close()
}

func TestCoordinatorTestSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorTestSuite))
}

// advance moves the mocked clock forward
func (s *CoordinatorTestSuite) advance(d time.Duration) {
	s.now = s.now.Add(d)
}

func (s *CoordinatorTestSuite) ensure(id string) {
	_, err := s.svc.EnsureParticipant(s.ctx, &EnsureParticipantInput{ParticipantID: id})
	s.Require().NoError(err)
}

func (s *CoordinatorTestSuite) get(id string) *models.Participant {
	p, err := s.repo.GetParticipant(s.ctx, &participantRepo.GetParticipantInput{ParticipantID: id})
	s.Require().NoError(err)
	return p
}

// pair drives two waiting participants into a chat via the caller's poll
func (s *CoordinatorTestSuite) pair(caller, candidate string) {
	s.ensure(caller)
	s.ensure(candidate)

	out, err := s.svc.IsStatusUnchanged(s.ctx, &IsStatusUnchangedInput{
		ParticipantID: caller,
		AssumedStatus: models.StatusWaiting,
	})
	s.Require().NoError(err)
	s.Require().Equal(models.StatusChat, out.Status)
}

func (s *CoordinatorTestSuite) TestEnsureParticipantIsIdempotent() {
	out, err := s.svc.EnsureParticipant(s.ctx, &EnsureParticipantInput{ParticipantID: "alice"})
	s.Require().NoError(err)
	s.True(out.Created)

	out, err = s.svc.EnsureParticipant(s.ctx, &EnsureParticipantInput{ParticipantID: "alice"})
	s.Require().NoError(err)
	s.False(out.Created)

	p := s.get("alice")
	s.Equal(models.StatusWaiting, p.Status)
	s.True(p.Connected)
	s.Equal(models.NoRoom, p.RoomID)
	s.Equal(models.NoSelection, p.SelectedIndex)
}

func (s *CoordinatorTestSuite) TestGetEffectiveStatusUnknownParticipant() {
	_, err := s.svc.GetEffectiveStatus(s.ctx, &GetEffectiveStatusInput{ParticipantID: "ghost"})
	s.Require().ErrorIs(err, ErrParticipantNotFound)
}

func (s *CoordinatorTestSuite) TestWaitingTimeoutAssignsSingleTask() {
	s.ensure("alice")

	s.advance((testWaitingSeconds + 1) * time.Second)

	out, err := s.svc.GetEffectiveStatus(s.ctx, &GetEffectiveStatusInput{ParticipantID: "alice"})
	s.Require().NoError(err)
	s.Equal(models.StatusSingleTask, out.Status)

	p := s.get("alice")
	s.Equal("scenario-1", p.SingleTaskID)
	s.Contains([]int{0, 1}, p.AgentIndex)
	s.Equal(s.now.Unix(), p.StatusTimestamp.Unix())

	// A participant past its budget is never observed still waiting
	info, err := s.svc.GetSingleTaskInfo(s.ctx, &GetSingleTaskInfoInput{ParticipantID: "alice"})
	s.Require().NoError(err)
	s.Equal(testSingleTaskSeconds, info.SecondsRemaining)
}

func (s *CoordinatorTestSuite) TestConnectionTimeoutReArmsWaiting() {
	s.ensure("alice")

	_, err := s.svc.Disconnect(s.ctx, &DisconnectInput{ParticipantID: "alice"})
	s.Require().NoError(err)

	s.advance((testConnTimeout + 1) * time.Second)

	out, err := s.svc.GetEffectiveStatus(s.ctx, &GetEffectiveStatusInput{ParticipantID: "alice"})
	s.Require().NoError(err)
	s.Equal(models.StatusWaiting, out.Status)

	p := s.get("alice")
	s.True(p.Connected)
	s.Equal(0, p.NumSingleTasksCompleted)
	s.Equal(s.now.Unix(), p.StatusTimestamp.Unix())
	s.Equal(s.now.Unix(), p.ConnectedTimestamp.Unix())
}

func (s *CoordinatorTestSuite) TestSingleTaskConnectionTimeoutResetsCounter() {
	s.ensure("alice")
	s.advance((testWaitingSeconds + 1) * time.Second)

	_, err := s.svc.GetEffectiveStatus(s.ctx, &GetEffectiveStatusInput{ParticipantID: "alice"})
	s.Require().NoError(err)

	// One task in the bag, then the client goes away
	_, err = s.svc.SubmitSingleTask(s.ctx, &SubmitSingleTaskInput{ParticipantID: "alice"})
	s.Require().NoError(err)

	s.advance((testWaitingSeconds + 1) * time.Second)
	_, err = s.svc.GetEffectiveStatus(s.ctx, &GetEffectiveStatusInput{ParticipantID: "alice"})
	s.Require().NoError(err)
	s.Require().Equal(models.StatusSingleTask, s.get("alice").Status)

	_, err = s.svc.Disconnect(s.ctx, &DisconnectInput{ParticipantID: "alice"})
	s.Require().NoError(err)
	s.advance((testConnTimeout + 1) * time.Second)

	out, err := s.svc.GetEffectiveStatus(s.ctx, &GetEffectiveStatusInput{ParticipantID: "alice"})
	s.Require().NoError(err)
	s.Equal(models.StatusWaiting, out.Status)
	s.Equal(0, s.get("alice").NumSingleTasksCompleted)
}

func (s *CoordinatorTestSuite) TestSubmitSingleTaskProgression() {
	s.ensure("alice")
	s.advance((testWaitingSeconds + 1) * time.Second)

	_, err := s.svc.GetEffectiveStatus(s.ctx, &GetEffectiveStatusInput{ParticipantID: "alice"})
	s.Require().NoError(err)

	out, err := s.svc.SubmitSingleTask(s.ctx, &SubmitSingleTaskInput{ParticipantID: "alice"})
	s.Require().NoError(err)
	s.Equal(models.StatusWaiting, out.Status)
	s.Equal(1, s.get("alice").NumSingleTasksCompleted)

	// Second (last allowed) task finishes the session
	s.advance((testWaitingSeconds + 1) * time.Second)
	_, err = s.svc.GetEffectiveStatus(s.ctx, &GetEffectiveStatusInput{ParticipantID: "alice"})
	s.Require().NoError(err)

	out, err = s.svc.SubmitSingleTask(s.ctx, &SubmitSingleTaskInput{ParticipantID: "alice"})
	s.Require().NoError(err)
	s.Equal(models.StatusFinished, out.Status)
	s.Equal(2, s.get("alice").NumSingleTasksCompleted)
}

func (s *CoordinatorTestSuite) TestSubmitSingleTaskWrongStatus() {
	s.ensure("alice")

	_, err := s.svc.SubmitSingleTask(s.ctx, &SubmitSingleTaskInput{ParticipantID: "alice"})
	s.Require().ErrorIs(err, ErrUnexpectedStatus)
}

func (s *CoordinatorTestSuite) TestSingleTaskNeverTimesOutWithNegativeBudget() {
	store, err := scenarioRepo.NewStatic(testScenarios())
	s.Require().NoError(err)

	svc, err := New(&Config{
		WaitingSeconds:           testWaitingSeconds,
		SingleTaskSeconds:        -1,
		ChatSeconds:              testChatSeconds,
		FinishedSeconds:          testFinishedSeconds,
		ConnectionTimeoutSeconds: testConnTimeout,
		MaxSingleTasks:           testMaxSingleTasks,
		ParticipantRepo:          s.repo,
		ScenarioStore:            store,
		Clock:                    s.mockClock,
		Random:                   s.mockRandom,
		Codes:                    s.mockCodes,
	})
	s.Require().NoError(err)

	_, err = svc.EnsureParticipant(s.ctx, &EnsureParticipantInput{ParticipantID: "alice"})
	s.Require().NoError(err)

	s.advance((testWaitingSeconds + 1) * time.Second)
	_, err = svc.GetEffectiveStatus(s.ctx, &GetEffectiveStatusInput{ParticipantID: "alice"})
	s.Require().NoError(err)
	s.Require().Equal(models.StatusSingleTask, s.get("alice").Status)

	// Hours later the task is still live
	s.advance(4 * time.Hour)
	out, err := svc.GetEffectiveStatus(s.ctx, &GetEffectiveStatusInput{ParticipantID: "alice"})
	s.Require().NoError(err)
	s.Equal(models.StatusSingleTask, out.Status)

	info, err := svc.GetSingleTaskInfo(s.ctx, &GetSingleTaskInfoInput{ParticipantID: "alice"})
	s.Require().NoError(err)
	s.Equal(-1, info.SecondsRemaining)
}

func (s *CoordinatorTestSuite) TestChatExpiryMovesBothToWaiting() {
	s.pair("alice", "bob")

	s.advance((testChatSeconds + 1) * time.Second)

	out, err := s.svc.GetEffectiveStatus(s.ctx, &GetEffectiveStatusInput{ParticipantID: "alice"})
	s.Require().NoError(err)
	s.Equal(models.StatusWaiting, out.Status)

	alice := s.get("alice")
	bob := s.get("bob")
	s.Equal(models.StatusWaiting, alice.Status)
	s.Equal(models.StatusWaiting, bob.Status)
	s.Equal(msgChatExpired, alice.Message)
	s.Equal(msgChatExpired, bob.Message)
	s.Equal(models.NoRoom, alice.RoomID)
	s.Empty(alice.PartnerID)
}

func (s *CoordinatorTestSuite) TestLeaveRoomEndsChatForBoth() {
	s.pair("alice", "bob")

	_, err := s.svc.LeaveRoom(s.ctx, &LeaveRoomInput{ParticipantID: "alice"})
	s.Require().NoError(err)

	alice := s.get("alice")
	bob := s.get("bob")
	s.Equal(models.StatusWaiting, alice.Status)
	s.Equal(models.StatusWaiting, bob.Status)
	s.Equal(msgYouLeft, alice.Message)
	s.Equal(msgPartnerLeft, bob.Message)
	s.Equal(models.NoRoom, alice.RoomID)
	s.Equal(models.NoRoom, bob.RoomID)
}

func (s *CoordinatorTestSuite) TestLeaveRoomOutsideChat() {
	s.ensure("alice")

	_, err := s.svc.LeaveRoom(s.ctx, &LeaveRoomInput{ParticipantID: "alice"})
	s.Require().ErrorIs(err, ErrUnexpectedStatus)
}

func (s *CoordinatorTestSuite) TestIsChatValidHealthyPairing() {
	s.pair("alice", "bob")

	out, err := s.svc.IsChatValid(s.ctx, &IsChatValidInput{ParticipantID: "alice"})
	s.Require().NoError(err)
	s.True(out.Valid)
}

func (s *CoordinatorTestSuite) TestIsChatValidPartnerConnectionTimeout() {
	s.pair("alice", "bob")

	_, err := s.svc.Disconnect(s.ctx, &DisconnectInput{ParticipantID: "bob"})
	s.Require().NoError(err)

	s.advance((testConnTimeout + 1) * time.Second)

	out, err := s.svc.IsChatValid(s.ctx, &IsChatValidInput{ParticipantID: "alice"})
	s.Require().NoError(err)
	s.False(out.Valid)

	alice := s.get("alice")
	s.Equal(models.StatusWaiting, alice.Status)
	s.Equal(msgPartnerTimeout, alice.Message)
	s.Equal(models.NoRoom, alice.RoomID)
}

func (s *CoordinatorTestSuite) TestIsChatValidPartnerLeft() {
	s.pair("alice", "bob")

	_, err := s.svc.LeaveRoom(s.ctx, &LeaveRoomInput{ParticipantID: "bob"})
	s.Require().NoError(err)

	out, err := s.svc.IsChatValid(s.ctx, &IsChatValidInput{ParticipantID: "alice"})
	s.Require().NoError(err)
	s.False(out.Valid)

	// LeaveRoom already surfaced the partner-left message
	s.Equal(models.StatusWaiting, s.get("alice").Status)
}

func (s *CoordinatorTestSuite) TestGetWaitingInfo() {
	s.ensure("alice")

	s.advance(2 * time.Second)

	out, err := s.svc.GetWaitingInfo(s.ctx, &GetWaitingInfoInput{ParticipantID: "alice"})
	s.Require().NoError(err)
	s.Equal(msgWaiting, out.Message)
	s.Equal(testWaitingSeconds-2, out.SecondsRemaining)
}

func (s *CoordinatorTestSuite) TestGetChatInfo() {
	s.pair("alice", "bob")

	out, err := s.svc.GetChatInfo(s.ctx, &GetChatInfoInput{ParticipantID: "alice"})
	s.Require().NoError(err)
	s.Equal(1, out.RoomID)
	s.Equal("scenario-1", out.Scenario.UUID)
	s.Equal(testChatSeconds, out.SecondsRemaining)

	partnerOut, err := s.svc.GetChatInfo(s.ctx, &GetChatInfoInput{ParticipantID: "bob"})
	s.Require().NoError(err)
	s.Equal(out.RoomID, partnerOut.RoomID)
	s.Equal(1, out.AgentIndex+partnerOut.AgentIndex)
}

func (s *CoordinatorTestSuite) TestGetChatInfoWrongStatus() {
	s.ensure("alice")

	_, err := s.svc.GetChatInfo(s.ctx, &GetChatInfoInput{ParticipantID: "alice"})
	s.Require().ErrorIs(err, ErrUnexpectedStatus)
}

func (s *CoordinatorTestSuite) finish(id string) {
	s.ensure(id)
	for i := 0; i < testMaxSingleTasks; i++ {
		s.advance((testWaitingSeconds + 1) * time.Second)
		_, err := s.svc.GetEffectiveStatus(s.ctx, &GetEffectiveStatusInput{ParticipantID: id})
		s.Require().NoError(err)
		_, err = s.svc.SubmitSingleTask(s.ctx, &SubmitSingleTaskInput{ParticipantID: id})
		s.Require().NoError(err)
	}
	s.Require().Equal(models.StatusFinished, s.get(id).Status)
}

func (s *CoordinatorTestSuite) TestGetFinishedInfoHandsOutCompletionCodeOnce() {
	s.finish("alice")

	s.mockCodes.EXPECT().NewCode().Return("code-123").Times(1)

	out, err := s.svc.GetFinishedInfo(s.ctx, &GetFinishedInfoInput{
		ParticipantID:      "alice",
		WantCompletionCode: true,
	})
	s.Require().NoError(err)
	s.Equal("code-123", out.CompletionCode)
	s.Equal(msgAllTasksDone, out.Message)

	// Polling again returns the stored code without generating a new one
	out, err = s.svc.GetFinishedInfo(s.ctx, &GetFinishedInfoInput{
		ParticipantID:      "alice",
		WantCompletionCode: true,
	})
	s.Require().NoError(err)
	s.Equal("code-123", out.CompletionCode)
}

func (s *CoordinatorTestSuite) TestFinishedTimeoutResetsToWaiting() {
	s.finish("alice")

	s.advance((testFinishedSeconds + 1) * time.Second)

	out, err := s.svc.GetEffectiveStatus(s.ctx, &GetEffectiveStatusInput{ParticipantID: "alice"})
	s.Require().NoError(err)
	s.Equal(models.StatusWaiting, out.Status)

	p := s.get("alice")
	s.Empty(p.Message)
	s.Equal(0, p.NumSingleTasksCompleted)
	s.Empty(p.CompletionCode)
}
