package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/auramoney/gameclient/internal/dice"
	"github.com/auramoney/gameclient/internal/events"
	"github.com/auramoney/gameclient/internal/identity"
	"github.com/auramoney/gameclient/internal/models"
	"github.com/auramoney/gameclient/internal/services/state"
	"github.com/auramoney/gameclient/internal/services/turn"
)

// Command names accepted at the prompt
const (
	CommandRoll    = "roll"
	CommandMove    = "move"
	CommandEnd     = "end"
	CommandState   = "state"
	CommandPlayers = "players"
	CommandRefresh = "refresh"
	CommandHelp    = "help"
	CommandQuit    = "quit"
)

// Config holds configuration for the console handler
type Config struct {
	StateStore  state.Service
	Coordinator turn.Service
	Bus         *events.Bus
	Identity    identity.Identity

	// In is the command source, Out the render target
	In  io.Reader
	Out io.Writer
}

// Handler is a line-oriented front end: it renders session events from
// the bus and turns typed commands into coordinator calls.
type Handler struct {
	stateStore  state.Service
	coordinator turn.Service
	bus         *events.Bus
	identity    identity.Identity
	in          io.Reader
	out         io.Writer

	subs []events.Subscription
}

// New creates a new console handler
func New(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.StateStore == nil {
		return nil, errors.New("state store cannot be nil")
	}
	if cfg.Coordinator == nil {
		return nil, errors.New("coordinator cannot be nil")
	}
	if cfg.Bus == nil {
		return nil, errors.New("event bus cannot be nil")
	}
	if cfg.In == nil || cfg.Out == nil {
		return nil, errors.New("input and output streams cannot be nil")
	}

	return &Handler{
		stateStore:  cfg.StateStore,
		coordinator: cfg.Coordinator,
		bus:         cfg.Bus,
		identity:    cfg.Identity,
		in:          cfg.In,
		out:         cfg.Out,
	}, nil
}

// Start subscribes to session events and runs the command loop until
// the input closes, the user quits, or the context is cancelled.
func (h *Handler) Start(ctx context.Context) error {
	h.subscribeEvents()
	defer h.unsubscribeEvents()

	fmt.Fprintf(h.out, "Signed in as %s. Type 'help' for commands.\n", h.identity.Username)

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(h.in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		scanErr <- scanner.Err()
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-scanErr
			}
			if quit := h.dispatch(ctx, line); quit {
				return nil
			}
		}
	}
}

// dispatch routes one command line. Returns true when the loop should
// stop.
func (h *Handler) dispatch(ctx context.Context, line string) bool {
	fields := strings.Fields(strings.TrimSpace(strings.ToLower(line)))
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case CommandRoll:
		h.handleRoll(ctx, fields[1:])
	case CommandMove:
		h.handleMove(ctx, fields[1:])
	case CommandEnd:
		h.handleEnd(ctx)
	case CommandState:
		h.renderState(h.stateStore.GetState())
	case CommandPlayers:
		h.renderPlayers(h.stateStore.GetState().Players)
	case CommandRefresh:
		h.handleRefresh(ctx)
	case CommandHelp:
		h.renderHelp()
	case CommandQuit:
		return true
	default:
		fmt.Fprintf(h.out, "Unknown command %q. Type 'help' for commands.\n", fields[0])
	}
	return false
}

func (h *Handler) handleRoll(ctx context.Context, args []string) {
	choice := dice.ChoiceDouble
	if len(args) > 0 && args[0] == string(dice.ChoiceSingle) {
		choice = dice.ChoiceSingle
	}

	out, err := h.coordinator.RollDice(ctx, &turn.RollDiceInput{DiceChoice: choice})
	if err != nil {
		fmt.Fprintf(h.out, "Roll failed: %v\n", err)
		return
	}
	if out.Dropped {
		fmt.Fprintf(h.out, "Roll skipped: %s\n", out.Reason)
		return
	}
	if out.Moved {
		fmt.Fprintf(h.out, "Moved to cell %d.\n", out.NewPosition)
	}
}

func (h *Handler) handleMove(ctx context.Context, args []string) {
	input := &turn.MovePlayerInput{}
	if len(args) > 0 {
		steps, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(h.out, "Not a step count: %q\n", args[0])
			return
		}
		input.Steps = steps
	}

	out, err := h.coordinator.MovePlayer(ctx, input)
	if err != nil {
		fmt.Fprintf(h.out, "Move failed: %v\n", err)
		return
	}
	if out.Dropped {
		fmt.Fprintf(h.out, "Move skipped: %s\n", out.Reason)
		return
	}
	fmt.Fprintf(h.out, "Moved %d steps to cell %d.\n", out.Steps, out.NewPosition)
}

func (h *Handler) handleEnd(ctx context.Context) {
	out, err := h.coordinator.EndTurn(ctx, &turn.EndTurnInput{})
	if err != nil {
		fmt.Fprintf(h.out, "End turn failed: %v\n", err)
		return
	}
	if out.Dropped {
		fmt.Fprintf(h.out, "End turn skipped: %s\n", out.Reason)
	}
}

func (h *Handler) handleRefresh(ctx context.Context) {
	out, err := h.stateStore.FetchGameState(ctx, &state.FetchGameStateInput{Force: true})
	if err != nil {
		fmt.Fprintf(h.out, "Refresh failed: %v\n", err)
		return
	}
	if out.Throttled {
		fmt.Fprintln(h.out, "Refresh skipped: the server asked us to slow down.")
		return
	}
	h.renderState(out.State)
}

func (h *Handler) subscribeEvents() {
	h.subs = append(h.subs,
		h.bus.On(models.EventTurnChanged, func(payload interface{}) {
			change, ok := payload.(*models.TurnChange)
			if !ok || change.ActivePlayer == nil {
				return
			}
			if h.identity.Matches(change.ActivePlayer) {
				fmt.Fprintln(h.out, "Your turn!")
			} else {
				fmt.Fprintf(h.out, "It is %s's turn.\n", change.ActivePlayer.Username)
			}
		}),
		h.bus.On(models.EventDiceRolled, func(payload interface{}) {
			result, ok := payload.(*models.DiceResult)
			if !ok {
				return
			}
			h.renderDice(result)
		}),
		h.bus.On(models.EventPlayersUpdated, func(payload interface{}) {
			update, ok := payload.(*models.PlayersUpdate)
			if !ok {
				return
			}
			h.renderPlayers(update.Players)
		}),
		h.bus.On(models.EventPlayerMoved, func(payload interface{}) {
			move, ok := payload.(*models.PlayerMove)
			if !ok || move.Player == nil {
				return
			}
			fmt.Fprintf(h.out, "%s moved %d steps: %d -> %d\n",
				move.Player.Username, move.Steps, move.OldPosition, move.NewPosition)
		}),
		h.bus.On(models.EventRollError, func(payload interface{}) {
			fmt.Fprintf(h.out, "Roll rejected: %v\n", payload)
		}),
		h.bus.On(models.EventStateCleared, func(payload interface{}) {
			fmt.Fprintln(h.out, "Session cleared.")
		}),
	)
}

func (h *Handler) unsubscribeEvents() {
	for _, sub := range h.subs {
		h.bus.Off(sub)
	}
	h.subs = nil
}

func (h *Handler) renderState(snapshot *models.SessionState) {
	if snapshot == nil {
		return
	}

	started := "waiting"
	if snapshot.GameStarted {
		started = "in progress"
	}
	fmt.Fprintf(h.out, "Room %s (%s)\n", snapshot.RoomID, started)

	h.renderPlayers(snapshot.Players)

	if snapshot.ActivePlayer != nil {
		fmt.Fprintf(h.out, "Turn: %s\n", snapshot.ActivePlayer.Username)
	}
	if snapshot.LastDiceResult != nil {
		h.renderDice(snapshot.LastDiceResult)
	}
}

func (h *Handler) renderPlayers(players []*models.Player) {
	for i, p := range players {
		marker := " "
		if h.identity.Matches(p) {
			marker = "*"
		}
		track := "outer"
		if p.IsInner {
			track = "inner"
		}
		fmt.Fprintf(h.out, "%s %d. %-16s $%-7d cell %d (%s)\n",
			marker, i+1, p.Username, p.Money, p.Position, track)
	}
}

func (h *Handler) renderDice(result *models.DiceResult) {
	parts := make([]string, 0, len(result.Values))
	for _, v := range result.Values {
		parts = append(parts, strconv.Itoa(v))
	}
	fmt.Fprintf(h.out, "Rolled %s = %d\n", strings.Join(parts, " + "), result.Total)
}

func (h *Handler) renderHelp() {
	fmt.Fprintln(h.out, "Commands:")
	fmt.Fprintln(h.out, "  roll [single|double]  roll the dice")
	fmt.Fprintln(h.out, "  move [steps]          move (defaults to the last roll)")
	fmt.Fprintln(h.out, "  end                   end your turn")
	fmt.Fprintln(h.out, "  state                 show the session")
	fmt.Fprintln(h.out, "  players               show the roster")
	fmt.Fprintln(h.out, "  refresh               force a server sync")
	fmt.Fprintln(h.out, "  quit                  leave")
}
