package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/auramoney/gameclient/internal/common/clock"
	"github.com/auramoney/gameclient/internal/events"
	"github.com/auramoney/gameclient/internal/gateway"
	gatewayMocks "github.com/auramoney/gameclient/internal/gateway/mocks"
	"github.com/auramoney/gameclient/internal/models"
	snapshotRepo "github.com/auramoney/gameclient/internal/repositories/snapshot"
	snapshotMocks "github.com/auramoney/gameclient/internal/repositories/snapshot/mocks"
)

type StateStoreTestSuite struct {
	suite.Suite
	mockCtrl    *gomock.Controller
	mockGateway *gatewayMocks.MockServerGateway
	bus         *events.Bus
	fakeClock   *clock.Fake
	store       *store
	ctx         context.Context

	testTime   time.Time
	testRoomID string
}

func (s *StateStoreTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockGateway = gatewayMocks.NewMockServerGateway(s.mockCtrl)
	s.bus = events.NewBus()
	s.testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.fakeClock = clock.NewFake(s.testTime)
	s.ctx = context.Background()
	s.testRoomID = "room-1"

	svc, err := New(s.ctx, &Config{
		Gateway: s.mockGateway,
		Bus:     s.bus,
		Clock:   s.fakeClock,
		RoomID:  s.testRoomID,
	})
	s.Require().NoError(err)
	s.store = svc
}

func (s *StateStoreTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// subscribe registers a buffered collector for an event name.
func (s *StateStoreTestSuite) subscribe(event string) <-chan interface{} {
	ch := make(chan interface{}, 16)
	s.bus.On(event, func(payload interface{}) {
		ch <- payload
	})
	return ch
}

func (s *StateStoreTestSuite) waitEvent(ch <-chan interface{}) interface{} {
	select {
	case payload := <-ch:
		return payload
	case <-time.After(time.Second):
		s.FailNow("timed out waiting for event")
		return nil
	}
}

func (s *StateStoreTestSuite) assertNoEvent(ch <-chan interface{}) {
	select {
	case payload := <-ch:
		s.FailNowf("unexpected event", "payload: %+v", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func (s *StateStoreTestSuite) testPayload() *gateway.StatePayload {
	idx := 0
	return &gateway.StatePayload{
		Players: []*models.Player{
			{ID: "p1", Username: "alice", Money: 1500},
			{ID: "p2", Username: "bob", Money: 1500},
		},
		CurrentPlayerIndex: &idx,
		CanRoll:            models.Bool(true),
	}
}

func (s *StateStoreTestSuite) TestUpdateFromServerCommitsChanges() {
	out, err := s.store.UpdateFromServer(s.ctx, &UpdateFromServerInput{Payload: s.testPayload()})

	s.Require().NoError(err)
	s.True(out.Committed)
	s.True(out.TurnChanged)
	s.True(out.PlayersChanged)

	state := s.store.GetState()
	s.Len(state.Players, 2)
	s.Equal("alice", state.Players[0].Username)
	s.Require().NotNil(state.ActivePlayer)
	s.Equal("p1", state.ActivePlayer.ID)
	s.Require().NotNil(state.CanRoll)
	s.True(*state.CanRoll)
	s.Equal(s.testTime, state.UpdatedAt)
}

func (s *StateStoreTestSuite) TestUpdateFromServerIsIdempotent() {
	_, err := s.store.UpdateFromServer(s.ctx, &UpdateFromServerInput{Payload: s.testPayload()})
	s.Require().NoError(err)
	before := s.store.GetState()

	out, err := s.store.UpdateFromServer(s.ctx, &UpdateFromServerInput{Payload: s.testPayload()})

	s.Require().NoError(err)
	s.False(out.Committed)
	s.Equal(before.UpdatedAt, s.store.GetState().UpdatedAt)
}

func (s *StateStoreTestSuite) TestUpdateFromServerNormalizesPlayers() {
	payload := &gateway.StatePayload{
		Players: []*models.Player{
			{UserID: "u1"},           // id falls back to userId
			{Username: "ghost"},      // no id at all, dropped
			{ID: "p3", UserID: "u3"}, // username generated from slot
		},
	}

	_, err := s.store.UpdateFromServer(s.ctx, &UpdateFromServerInput{Payload: payload})
	s.Require().NoError(err)

	state := s.store.GetState()
	s.Require().Len(state.Players, 2)
	s.Equal("u1", state.Players[0].ID)
	s.Equal("u1", state.Players[0].UserID)
	s.Equal("p3", state.Players[1].ID)
	s.Equal("player3", state.Players[1].Username)
}

func (s *StateStoreTestSuite) TestUpdateFromServerActivePlayerPrecedence() {
	// Explicit activePlayer beats the turn index.
	idx := 0
	payload := s.testPayload()
	payload.CurrentPlayerIndex = &idx
	payload.ActivePlayer = &models.Player{ID: "p2"}

	_, err := s.store.UpdateFromServer(s.ctx, &UpdateFromServerInput{Payload: payload})
	s.Require().NoError(err)

	state := s.store.GetState()
	s.Require().NotNil(state.ActivePlayer)
	s.Equal("p2", state.ActivePlayer.ID)
	// The roster copy wins so the active pointer carries merged fields.
	s.Equal("bob", state.ActivePlayer.Username)
}

func (s *StateStoreTestSuite) TestUpdateFromServerActivePlayerDefaultsToFirst() {
	payload := &gateway.StatePayload{
		Players: []*models.Player{
			{ID: "p1", Username: "alice"},
			{ID: "p2", Username: "bob"},
		},
	}

	out, err := s.store.UpdateFromServer(s.ctx, &UpdateFromServerInput{Payload: payload})
	s.Require().NoError(err)

	s.True(out.TurnChanged)
	state := s.store.GetState()
	s.Require().NotNil(state.ActivePlayer)
	s.Equal("p1", state.ActivePlayer.ID)
	s.Equal(0, state.CurrentPlayerIndex)
}

func (s *StateStoreTestSuite) TestUpdateFromServerWrapsOutOfRangeIndex() {
	idx := 5
	payload := s.testPayload()
	payload.CurrentPlayerIndex = &idx

	_, err := s.store.UpdateFromServer(s.ctx, &UpdateFromServerInput{Payload: payload})
	s.Require().NoError(err)

	state := s.store.GetState()
	s.Equal(1, state.CurrentPlayerIndex)
	s.Require().NotNil(state.ActivePlayer)
	s.Equal("p2", state.ActivePlayer.ID)
}

func (s *StateStoreTestSuite) TestUpdateFromServerNilPayload() {
	_, err := s.store.UpdateFromServer(s.ctx, nil)
	s.ErrorIs(err, ErrNilPayload)

	_, err = s.store.UpdateFromServer(s.ctx, &UpdateFromServerInput{})
	s.ErrorIs(err, ErrNilPayload)
}

func (s *StateStoreTestSuite) TestUpdateFromServerDroppedWhileCommitInProgress() {
	s.store.committing.Store(true)
	defer s.store.committing.Store(false)

	_, err := s.store.UpdateFromServer(s.ctx, &UpdateFromServerInput{Payload: s.testPayload()})
	s.ErrorIs(err, ErrCommitInProgress)
}

func (s *StateStoreTestSuite) TestUpdateFromServerRecursionLimit() {
	s.store.updateDepth.Add(int32(s.store.recursionLimit))
	defer s.store.updateDepth.Add(-int32(s.store.recursionLimit))

	_, err := s.store.UpdateFromServer(s.ctx, &UpdateFromServerInput{Payload: s.testPayload()})
	s.ErrorIs(err, ErrRecursionLimit)
}

func (s *StateStoreTestSuite) TestDebounceCoalescesBursts() {
	updated := s.subscribe(models.EventStateUpdated)

	// Three commits inside one debounce window.
	for _, money := range []int64{100, 200, 300} {
		payload := s.testPayload()
		payload.Players[0].Money = money
		_, err := s.store.UpdateFromServer(s.ctx, &UpdateFromServerInput{Payload: payload})
		s.Require().NoError(err)
	}

	s.fakeClock.Advance(events.DefaultWindow)

	payload := s.waitEvent(updated)
	state, ok := payload.(*models.SessionState)
	s.Require().True(ok)
	s.Equal(int64(300), state.Players[0].Money)

	// Only the latest snapshot survived the window.
	s.assertNoEvent(updated)
}

func (s *StateStoreTestSuite) TestCommitPanicReleasesStore() {
	err := s.store.commit(s.ctx, func(prev *models.SessionState) (*models.SessionState, []notification, error) {
		panic("bad build")
	})
	s.Require().NoError(err)

	// The store must come back usable: reads do not block and the
	// next commit goes through.
	done := make(chan *models.SessionState, 1)
	go func() {
		done <- s.store.GetState()
	}()
	select {
	case snapshot := <-done:
		s.NotNil(snapshot)
	case <-time.After(time.Second):
		s.FailNow("GetState blocked after a recovered commit panic")
	}

	s.Require().NoError(s.store.UpdateDiceResult(s.ctx, &UpdateDiceResultInput{
		Result: models.NewDiceResult(2, 2),
	}))
	s.Equal(4, s.store.GetState().LastDiceResult.Total)
}

func (s *StateStoreTestSuite) TestPassTurnRoundRobin() {
	_, err := s.store.UpdateFromServer(s.ctx, &UpdateFromServerInput{Payload: s.testPayload()})
	s.Require().NoError(err)

	out, err := s.store.PassTurnToNextPlayer(s.ctx, &PassTurnInput{})
	s.Require().NoError(err)
	s.Equal(1, out.CurrentPlayerIndex)
	s.Equal("p2", out.ActivePlayer.ID)

	out, err = s.store.PassTurnToNextPlayer(s.ctx, &PassTurnInput{})
	s.Require().NoError(err)
	s.Equal(0, out.CurrentPlayerIndex)
	s.Equal("p1", out.ActivePlayer.ID)
}

func (s *StateStoreTestSuite) TestPassTurnWithoutPlayers() {
	_, err := s.store.PassTurnToNextPlayer(s.ctx, &PassTurnInput{})
	s.ErrorIs(err, ErrNoPlayers)
}

func (s *StateStoreTestSuite) TestAddUpdateRemovePlayer() {
	err := s.store.AddPlayer(s.ctx, &AddPlayerInput{
		Player: &models.Player{ID: "p1", Username: "alice", Money: 1500},
	})
	s.Require().NoError(err)

	err = s.store.UpdatePlayer(s.ctx, &UpdatePlayerInput{
		Player: &models.Player{ID: "p1", Username: "alice", Money: 1200, Position: 4},
	})
	s.Require().NoError(err)

	state := s.store.GetState()
	s.Require().Len(state.Players, 1)
	s.Equal(int64(1200), state.Players[0].Money)
	s.Equal(4, state.Players[0].Position)

	err = s.store.RemovePlayer(s.ctx, &RemovePlayerInput{PlayerID: "p1"})
	s.Require().NoError(err)
	s.Empty(s.store.GetState().Players)
}

func (s *StateStoreTestSuite) TestUpdatePlayerNotFound() {
	err := s.store.UpdatePlayer(s.ctx, &UpdatePlayerInput{
		Player: &models.Player{ID: "missing"},
	})
	s.ErrorIs(err, ErrPlayerNotFound)
}

func (s *StateStoreTestSuite) TestRemovingActivePlayerResolvesNewTurn() {
	_, err := s.store.UpdateFromServer(s.ctx, &UpdateFromServerInput{Payload: s.testPayload()})
	s.Require().NoError(err)

	err = s.store.RemovePlayer(s.ctx, &RemovePlayerInput{PlayerID: "p1"})
	s.Require().NoError(err)

	state := s.store.GetState()
	s.Equal(0, state.CurrentPlayerIndex)
	s.Require().NotNil(state.ActivePlayer)
	s.Equal("p2", state.ActivePlayer.ID)
}

func (s *StateStoreTestSuite) TestUpdatedAtNeverDecreases() {
	_, err := s.store.UpdateFromServer(s.ctx, &UpdateFromServerInput{Payload: s.testPayload()})
	s.Require().NoError(err)
	first := s.store.GetState().UpdatedAt

	s.fakeClock.Advance(time.Second)

	payload := s.testPayload()
	payload.Players[0].Money = 900
	_, err = s.store.UpdateFromServer(s.ctx, &UpdateFromServerInput{Payload: payload})
	s.Require().NoError(err)

	second := s.store.GetState().UpdatedAt
	s.True(second.After(first))
}

func (s *StateStoreTestSuite) TestUpdateDiceResult() {
	rolled := s.subscribe(models.EventDiceRolled)

	err := s.store.UpdateDiceResult(s.ctx, &UpdateDiceResultInput{
		Result: models.NewDiceResult(3, 4),
	})
	s.Require().NoError(err)

	state := s.store.GetState()
	s.Require().NotNil(state.LastDiceResult)
	s.Equal(7, state.LastDiceResult.Total)

	s.fakeClock.Advance(events.DefaultWindow)
	result := s.waitEvent(rolled).(*models.DiceResult)
	s.Equal([]int{3, 4}, result.Values)
}

func (s *StateStoreTestSuite) TestClearDiceResult() {
	err := s.store.UpdateDiceResult(s.ctx, &UpdateDiceResultInput{
		Result: models.NewDiceResult(3, 4),
	})
	s.Require().NoError(err)

	s.Require().NoError(s.store.ClearDiceResult(s.ctx))
	s.Nil(s.store.GetState().LastDiceResult)

	// Clearing an already-empty result is a no-op.
	s.Require().NoError(s.store.ClearDiceResult(s.ctx))
}

func (s *StateStoreTestSuite) TestGetStateReturnsDefensiveCopies() {
	_, err := s.store.UpdateFromServer(s.ctx, &UpdateFromServerInput{Payload: s.testPayload()})
	s.Require().NoError(err)

	state := s.store.GetState()
	state.Players[0].Money = -1
	state.ActivePlayer.ID = "tampered"

	fresh := s.store.GetState()
	s.Equal(int64(1500), fresh.Players[0].Money)
	s.Equal("p1", fresh.ActivePlayer.ID)
}

func (s *StateStoreTestSuite) TestFetchGameStateRespectsFreshness() {
	s.mockGateway.EXPECT().
		GetGameState(gomock.Any(), &gateway.GetGameStateInput{RoomID: s.testRoomID}).
		Return(&gateway.GetGameStateOutput{Success: true, State: s.testPayload()}, nil).
		Times(1)

	out, err := s.store.FetchGameState(s.ctx, nil)
	s.Require().NoError(err)
	s.Len(out.State.Players, 2)

	// Inside the freshness window the local state is served without a
	// round trip.
	out, err = s.store.FetchGameState(s.ctx, nil)
	s.Require().NoError(err)
	s.Len(out.State.Players, 2)

	// Past the window the gateway is consulted again.
	s.fakeClock.Advance(DefaultFreshnessWindow)
	s.mockGateway.EXPECT().
		GetGameState(gomock.Any(), gomock.Any()).
		Return(&gateway.GetGameStateOutput{Success: true, State: s.testPayload()}, nil).
		Times(1)

	_, err = s.store.FetchGameState(s.ctx, nil)
	s.Require().NoError(err)
}

func (s *StateStoreTestSuite) TestFetchGameStateForceBypassesFreshness() {
	s.mockGateway.EXPECT().
		GetGameState(gomock.Any(), gomock.Any()).
		Return(&gateway.GetGameStateOutput{Success: true, State: s.testPayload()}, nil).
		Times(2)

	_, err := s.store.FetchGameState(s.ctx, nil)
	s.Require().NoError(err)

	_, err = s.store.FetchGameState(s.ctx, &FetchGameStateInput{Force: true})
	s.Require().NoError(err)
}

func (s *StateStoreTestSuite) TestFetchGameStateMissingRoom() {
	svc, err := New(s.ctx, &Config{
		Gateway: s.mockGateway,
		Bus:     s.bus,
		Clock:   s.fakeClock,
	})
	s.Require().NoError(err)

	_, err = svc.FetchGameState(s.ctx, nil)
	s.ErrorIs(err, ErrMissingRoomID)
}

func (s *StateStoreTestSuite) TestFetchGameStateHonorsRetryAfter() {
	s.mockGateway.EXPECT().
		GetGameState(gomock.Any(), gomock.Any()).
		Return(nil, &gateway.StatusError{Code: 429, Message: "slow down", RetryAfter: 3 * time.Second}).
		Times(1)

	_, err := s.store.FetchGameState(s.ctx, nil)
	s.Require().Error(err)

	// Until the server's Retry-After elapses, fetches short-circuit
	// locally.
	out, err := s.store.FetchGameState(s.ctx, nil)
	s.Require().NoError(err)
	s.True(out.Throttled)
	s.Nil(out.State)

	s.fakeClock.Advance(3 * time.Second)
	s.mockGateway.EXPECT().
		GetGameState(gomock.Any(), gomock.Any()).
		Return(&gateway.GetGameStateOutput{Success: true, State: s.testPayload()}, nil).
		Times(1)

	out, err = s.store.FetchGameState(s.ctx, nil)
	s.Require().NoError(err)
	s.False(out.Throttled)
	s.Len(out.State.Players, 2)
}

func (s *StateStoreTestSuite) TestFetchGameStateBacksOffAfterFailure() {
	s.mockGateway.EXPECT().
		GetGameState(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused")).
		Times(1)

	_, err := s.store.FetchGameState(s.ctx, nil)
	s.Require().Error(err)

	// A failure without a Retry-After hint arms the exponential
	// schedule, starting at the initial interval.
	out, err := s.store.FetchGameState(s.ctx, nil)
	s.Require().NoError(err)
	s.True(out.Throttled)

	s.fakeClock.Advance(DefaultBackoffInitial)
	s.mockGateway.EXPECT().
		GetGameState(gomock.Any(), gomock.Any()).
		Return(&gateway.GetGameStateOutput{Success: true, State: s.testPayload()}, nil).
		Times(1)

	out, err = s.store.FetchGameState(s.ctx, nil)
	s.Require().NoError(err)
	s.False(out.Throttled)
}

func (s *StateStoreTestSuite) TestBreakerOpensAfterRepeatedFailuresAndRecovers() {
	mockRepo := snapshotMocks.NewMockRepository(s.mockCtrl)

	// Hydration misses both the room slot and the global slot.
	mockRepo.EXPECT().
		GetSnapshot(gomock.Any(), gomock.Any()).
		Return(nil, snapshotRepo.ErrSnapshotNotFound).
		Times(2)

	svc, err := New(s.ctx, &Config{
		Gateway:        s.mockGateway,
		SnapshotRepo:   mockRepo,
		Bus:            s.bus,
		Clock:          s.fakeClock,
		RoomID:         s.testRoomID,
		ErrorThreshold: 3,
	})
	s.Require().NoError(err)

	mockRepo.EXPECT().
		SaveSnapshot(gomock.Any(), gomock.Any()).
		Return(errors.New("redis: connection refused")).
		Times(3)

	for i, id := range []string{"p1", "p2", "p3"} {
		err := svc.AddPlayer(s.ctx, &AddPlayerInput{
			Player: &models.Player{ID: id, Username: "player", Position: i},
		})
		s.Require().NoError(err)
	}
	s.Len(svc.GetState().Players, 3)

	// The breaker is open: mutations silently no-op, the repository is
	// not touched.
	err = svc.AddPlayer(s.ctx, &AddPlayerInput{
		Player: &models.Player{ID: "p4", Username: "player"},
	})
	s.Require().NoError(err)
	s.Len(svc.GetState().Players, 3)

	// After the cooldown it closes with a clean slate.
	s.fakeClock.Advance(DefaultBreakerCooldown)
	mockRepo.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	err = svc.AddPlayer(s.ctx, &AddPlayerInput{
		Player: &models.Player{ID: "p4", Username: "player"},
	})
	s.Require().NoError(err)
	s.Len(svc.GetState().Players, 4)
}

func (s *StateStoreTestSuite) TestSubscriberPanicsCountTowardBreaker() {
	svc, err := New(s.ctx, &Config{
		Gateway:        s.mockGateway,
		Bus:            s.bus,
		Clock:          s.fakeClock,
		RoomID:         s.testRoomID,
		ErrorThreshold: 1,
	})
	s.Require().NoError(err)

	s.bus.On(models.EventDiceRolled, func(interface{}) { panic("bad subscriber") })

	s.Require().NoError(svc.UpdateDiceResult(s.ctx, &UpdateDiceResultInput{
		Result: models.NewDiceResult(3, 4),
	}))
	s.fakeClock.Advance(events.DefaultWindow)

	// Dispatch runs off the debouncer's timer goroutine.
	s.Require().Eventually(svc.breaker.open, time.Second, 5*time.Millisecond)

	// The breaker is open: the next mutation silently no-ops.
	s.Require().NoError(svc.AddPlayer(s.ctx, &AddPlayerInput{
		Player: &models.Player{ID: "p1", Username: "alice"},
	}))
	s.Empty(svc.GetState().Players)
}

func (s *StateStoreTestSuite) TestHydratesPersistedSnapshot() {
	mockRepo := snapshotMocks.NewMockRepository(s.mockCtrl)

	stored := models.NewSessionState()
	stored.Players = []*models.Player{{ID: "p1", UserID: "p1", Username: "alice"}}
	mockRepo.EXPECT().
		GetSnapshot(gomock.Any(), &snapshotRepo.GetSnapshotInput{RoomID: s.testRoomID}).
		Return(stored, nil)

	svc, err := New(s.ctx, &Config{
		Gateway:      s.mockGateway,
		SnapshotRepo: mockRepo,
		Bus:          s.bus,
		Clock:        s.fakeClock,
		RoomID:       s.testRoomID,
	})
	s.Require().NoError(err)

	state := svc.GetState()
	s.Require().Len(state.Players, 1)
	s.Equal("alice", state.Players[0].Username)
	s.Equal(s.testRoomID, state.RoomID)
}

func (s *StateStoreTestSuite) TestSetRoomIDRehydrates() {
	mockRepo := snapshotMocks.NewMockRepository(s.mockCtrl)

	mockRepo.EXPECT().
		GetSnapshot(gomock.Any(), gomock.Any()).
		Return(nil, snapshotRepo.ErrSnapshotNotFound).
		Times(2)

	svc, err := New(s.ctx, &Config{
		Gateway:      s.mockGateway,
		SnapshotRepo: mockRepo,
		Bus:          s.bus,
		Clock:        s.fakeClock,
		RoomID:       s.testRoomID,
	})
	s.Require().NoError(err)

	stored := models.NewSessionState()
	stored.RoomID = "room-2"
	stored.Players = []*models.Player{{ID: "p9", UserID: "p9", Username: "carol"}}
	mockRepo.EXPECT().
		GetSnapshot(gomock.Any(), &snapshotRepo.GetSnapshotInput{RoomID: "room-2"}).
		Return(stored, nil)
	mockRepo.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any()).Return(nil)

	err = svc.SetRoomID(s.ctx, &SetRoomIDInput{RoomID: "room-2"})
	s.Require().NoError(err)

	s.Equal("room-2", svc.RoomID())
	state := svc.GetState()
	s.Require().Len(state.Players, 1)
	s.Equal("carol", state.Players[0].Username)
}

func (s *StateStoreTestSuite) TestClearResetsSession() {
	cleared := s.subscribe(models.EventStateCleared)

	_, err := s.store.UpdateFromServer(s.ctx, &UpdateFromServerInput{Payload: s.testPayload()})
	s.Require().NoError(err)

	err = s.store.Clear(s.ctx)
	s.Require().NoError(err)

	state := s.store.GetState()
	s.Empty(state.Players)
	s.Nil(state.ActivePlayer)
	s.Empty(s.store.RoomID())

	s.fakeClock.Advance(events.DefaultWindow)
	s.waitEvent(cleared)
}

func (s *StateStoreTestSuite) TestDestroyedStoreRejectsOperations() {
	s.store.Destroy()

	_, err := s.store.UpdateFromServer(s.ctx, &UpdateFromServerInput{Payload: s.testPayload()})
	s.ErrorIs(err, ErrStoreDestroyed)

	_, err = s.store.FetchGameState(s.ctx, nil)
	s.ErrorIs(err, ErrStoreDestroyed)
}

func (s *StateStoreTestSuite) TestNewValidatesConfig() {
	_, err := New(s.ctx, nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(s.ctx, &Config{Bus: s.bus, Clock: s.fakeClock})
	s.ErrorIs(err, ErrNilGateway)

	_, err = New(s.ctx, &Config{Gateway: s.mockGateway, Clock: s.fakeClock})
	s.ErrorIs(err, ErrNilBus)

	_, err = New(s.ctx, &Config{Gateway: s.mockGateway, Bus: s.bus})
	s.ErrorIs(err, ErrNilClock)
}

func TestStateStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StateStoreTestSuite))
}
