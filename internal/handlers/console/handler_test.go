package console

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/auramoney/gameclient/internal/common/clock"
	"github.com/auramoney/gameclient/internal/events"
	"github.com/auramoney/gameclient/internal/gateway"
	gatewayMocks "github.com/auramoney/gameclient/internal/gateway/mocks"
	"github.com/auramoney/gameclient/internal/identity"
	"github.com/auramoney/gameclient/internal/models"
	"github.com/auramoney/gameclient/internal/services/state"
	"github.com/auramoney/gameclient/internal/services/turn"
)

type ConsoleHandlerTestSuite struct {
	suite.Suite
	mockCtrl    *gomock.Controller
	mockGateway *gatewayMocks.MockServerGateway
	bus         *events.Bus
	out         *bytes.Buffer
	handler     *Handler
	ctx         context.Context
}

func (s *ConsoleHandlerTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockGateway = gatewayMocks.NewMockServerGateway(s.mockCtrl)
	s.bus = events.NewBus()
	s.out = &bytes.Buffer{}
	s.ctx = context.Background()

	fakeClock := clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	me := identity.Identity{ID: "p1", UserID: "u1", Username: "alice"}

	stateStore, err := state.New(s.ctx, &state.Config{
		Gateway: s.mockGateway,
		Bus:     s.bus,
		Clock:   fakeClock,
		RoomID:  "room-1",
	})
	s.Require().NoError(err)

	coordinator, err := turn.New(&turn.Config{
		StateStore: stateStore,
		Gateway:    s.mockGateway,
		Bus:        s.bus,
		Clock:      fakeClock,
		Identity:   me,
	})
	s.Require().NoError(err)

	idx := 0
	_, err = stateStore.UpdateFromServer(s.ctx, &state.UpdateFromServerInput{
		Payload: &gateway.StatePayload{
			Players: []*models.Player{
				{ID: "p1", UserID: "u1", Username: "alice", Money: 1500},
				{ID: "p2", UserID: "u2", Username: "bob", Money: 1500},
			},
			CurrentPlayerIndex: &idx,
			GameStarted:        models.Bool(true),
			CanMove:            models.Bool(false),
		},
	})
	s.Require().NoError(err)

	handler, err := New(&Config{
		StateStore:  stateStore,
		Coordinator: coordinator,
		Bus:         s.bus,
		Identity:    me,
		In:          strings.NewReader(""),
		Out:         s.out,
	})
	s.Require().NoError(err)
	s.handler = handler
}

func (s *ConsoleHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *ConsoleHandlerTestSuite) TestStateCommandRendersSession() {
	s.handler.dispatch(s.ctx, "state")

	rendered := s.out.String()
	s.Contains(rendered, "Room room-1 (in progress)")
	s.Contains(rendered, "alice")
	s.Contains(rendered, "bob")
	s.Contains(rendered, "Turn: alice")
}

func (s *ConsoleHandlerTestSuite) TestPlayersCommandMarksLocalPlayer() {
	s.handler.dispatch(s.ctx, "players")

	for _, line := range strings.Split(s.out.String(), "\n") {
		if strings.Contains(line, "alice") {
			s.True(strings.HasPrefix(line, "*"))
		}
		if strings.Contains(line, "bob") {
			s.True(strings.HasPrefix(line, " "))
		}
	}
}

func (s *ConsoleHandlerTestSuite) TestRollCommandReportsResult() {
	s.mockGateway.EXPECT().
		RollDice(gomock.Any(), gomock.Any()).
		Return(&gateway.RollDiceOutput{
			Success:    true,
			DiceResult: json.RawMessage(`{"values":[6,1],"total":7}`),
		}, nil)

	s.handler.dispatch(s.ctx, "roll")

	// The coordinator emits dice:rolled through the state store's
	// debounced path, but the roll summary renders synchronously.
	s.NotContains(s.out.String(), "Roll failed")
}

func (s *ConsoleHandlerTestSuite) TestUnknownCommand() {
	s.handler.dispatch(s.ctx, "dance")
	s.Contains(s.out.String(), `Unknown command "dance"`)
}

func (s *ConsoleHandlerTestSuite) TestTurnChangeRendering() {
	s.handler.subscribeEvents()
	defer s.handler.unsubscribeEvents()

	s.bus.Emit(models.EventTurnChanged, &models.TurnChange{
		ActivePlayer: &models.Player{ID: "p2", UserID: "u2", Username: "bob"},
	})
	s.Contains(s.out.String(), "It is bob's turn.")

	s.out.Reset()
	s.bus.Emit(models.EventTurnChanged, &models.TurnChange{
		ActivePlayer: &models.Player{ID: "p1", UserID: "u1", Username: "alice"},
	})
	s.Contains(s.out.String(), "Your turn!")
}

func (s *ConsoleHandlerTestSuite) TestStartStopsOnQuit() {
	handler, err := New(&Config{
		StateStore:  s.handler.stateStore,
		Coordinator: s.handler.coordinator,
		Bus:         s.bus,
		Identity:    s.handler.identity,
		In:          strings.NewReader("help\nquit\n"),
		Out:         s.out,
	})
	s.Require().NoError(err)

	s.Require().NoError(handler.Start(s.ctx))
	s.Contains(s.out.String(), "Commands:")
}

func TestConsoleHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ConsoleHandlerTestSuite))
}
