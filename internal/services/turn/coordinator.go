package turn

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/auramoney/gameclient/internal/common/clock"
	"github.com/auramoney/gameclient/internal/dice"
	"github.com/auramoney/gameclient/internal/events"
	"github.com/auramoney/gameclient/internal/gateway"
	"github.com/auramoney/gameclient/internal/identity"
	"github.com/auramoney/gameclient/internal/models"
	"github.com/auramoney/gameclient/internal/services/state"
)

// coordinator implements the Service interface
type coordinator struct {
	stateStore state.Service
	gateway    gateway.ServerGateway
	bus        *events.Bus
	clock      clock.Clock
	roller     dice.Roller
	identity   identity.Identity

	rollCooldown  time.Duration
	actionTimeout time.Duration
	demoMode      bool

	mu         sync.Mutex
	inFlight   map[Action]bool
	lastRollAt time.Time
}

// New creates a new turn coordinator
func New(cfg *Config) (*coordinator, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.StateStore == nil {
		return nil, ErrNilStateStore
	}
	if cfg.Gateway == nil {
		return nil, ErrNilGateway
	}
	if cfg.Bus == nil {
		return nil, ErrNilBus
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	rollCooldown := cfg.RollCooldown
	if rollCooldown <= 0 {
		rollCooldown = DefaultRollCooldown
	}
	actionTimeout := cfg.ActionTimeout
	if actionTimeout <= 0 {
		actionTimeout = DefaultActionTimeout
	}

	return &coordinator{
		stateStore:    cfg.StateStore,
		gateway:       cfg.Gateway,
		bus:           cfg.Bus,
		clock:         cfg.Clock,
		roller:        cfg.Roller,
		identity:      cfg.Identity,
		rollCooldown:  rollCooldown,
		actionTimeout: actionTimeout,
		demoMode:      cfg.DemoMode,
		inFlight:      make(map[Action]bool),
	}, nil
}

// RollDice asks the server to roll, auto-chaining into a move when the
// roll grants one
func (c *coordinator) RollDice(ctx context.Context, input *RollDiceInput) (*RollDiceOutput, error) {
	if input == nil {
		input = &RollDiceInput{}
	}

	roomID := c.stateStore.RoomID()
	if roomID == "" {
		return nil, ErrMissingRoomID
	}

	// Ownership is captured before the round trip: the server's
	// response may already show the next player's turn, and the
	// auto-move decision belongs to whoever rolled.
	wasMyTurn := c.IsMyTurn(nil)
	if !wasMyTurn {
		return nil, ErrNotYourTurn
	}

	// Anti-spam and single-flight are checked together so a burst of
	// clicks collapses into one server roll.
	c.mu.Lock()
	if c.inFlight[ActionRoll] {
		c.mu.Unlock()
		return nil, ErrActionInFlight
	}
	if !c.lastRollAt.IsZero() && c.clock.Now().Sub(c.lastRollAt) < c.rollCooldown {
		c.mu.Unlock()
		return &RollDiceOutput{Dropped: true, Reason: ReasonCooldown}, nil
	}
	c.inFlight[ActionRoll] = true
	c.lastRollAt = c.clock.Now()
	c.mu.Unlock()

	defer c.clearInFlight(ActionRoll)
	defer c.bus.Emit(models.EventRollFinish, nil)

	choice := input.DiceChoice
	if choice == "" {
		choice = dice.ChoiceDouble
	}

	c.bus.Emit(models.EventRollStart, nil)

	// Local preview for immediate feedback; the server result
	// overrides it.
	if c.roller != nil {
		c.bus.Emit(models.EventDiceRolled, c.roller.Roll(choice))
	}

	callCtx, cancel := context.WithTimeout(ctx, c.actionTimeout)
	defer cancel()

	resp, err := c.gateway.RollDice(callCtx, &gateway.RollDiceInput{
		RoomID:     roomID,
		DiceChoice: string(choice),
		IsReroll:   input.IsReroll,
	})
	if err != nil {
		return c.rollFailed(ctx, err)
	}

	// Second ownership check against the server's answer: a stale
	// client that rolled out of turn gets the refreshed state and no
	// chained move.
	if resp.State != nil {
		if _, err := c.stateStore.UpdateFromServer(ctx, &state.UpdateFromServerInput{Payload: resp.State}); err != nil {
			log.Printf("turn: failed to apply roll state: %v", err)
		}
	}

	result := models.ParseDiceResult(resp.DiceResult)
	if result != nil {
		if err := c.stateStore.UpdateDiceResult(ctx, &state.UpdateDiceResultInput{Result: result}); err != nil {
			log.Printf("turn: failed to record dice result: %v", err)
		}
	}

	out := &RollDiceOutput{DiceResult: result}
	c.bus.Emit(models.EventRollSuccess, result)

	if wasMyTurn && !input.DisableAutoMove && result != nil && result.Total > 0 && c.moveFlagPermits() {
		// Ownership was captured before the roll went out, so the
		// chained move skips the re-check.
		moved, err := c.move(ctx, &MovePlayerInput{Steps: result.Total})
		if err != nil {
			log.Printf("turn: auto-move after roll failed: %v", err)
		} else if !moved.Dropped {
			out.Moved = true
			out.NewPosition = moved.NewPosition
		}
	}

	return out, nil
}

// rollFailed classifies a roll error. Turn races the server already
// rejected are benign: the state is refreshed and the caller gets a
// dropped roll instead of an error.
func (c *coordinator) rollFailed(ctx context.Context, err error) (*RollDiceOutput, error) {
	if gateway.IsBadRequest(err) {
		log.Printf("turn: roll rejected by server: %v", err)
		c.bus.Emit(models.EventRollError, err.Error())
		c.refreshState(ctx)
		return &RollDiceOutput{Dropped: true, Reason: ReasonNotYourTurn}, nil
	}

	c.bus.Emit(models.EventRollError, err.Error())
	return nil, fmt.Errorf("failed to roll dice: %w", err)
}

// MovePlayer advances the local player's token
func (c *coordinator) MovePlayer(ctx context.Context, input *MovePlayerInput) (*MovePlayerOutput, error) {
	if !c.IsMyTurn(nil) {
		return nil, ErrNotYourTurn
	}
	return c.move(ctx, input)
}

// move runs the move itself. Callers have already settled the
// ownership question.
func (c *coordinator) move(ctx context.Context, input *MovePlayerInput) (*MovePlayerOutput, error) {
	if input == nil {
		input = &MovePlayerInput{}
	}

	roomID := c.stateStore.RoomID()
	if roomID == "" {
		return nil, ErrMissingRoomID
	}

	c.mu.Lock()
	if c.inFlight[ActionMove] {
		c.mu.Unlock()
		return nil, ErrActionInFlight
	}
	c.inFlight[ActionMove] = true
	c.mu.Unlock()

	defer c.clearInFlight(ActionMove)
	defer c.bus.Emit(models.EventMoveFinish, nil)

	if input.Player != nil && !c.playerOwnsTurn(input.Player) {
		return nil, ErrNotYourTurn
	}

	steps := input.Steps
	if steps <= 0 {
		if last := c.stateStore.GetState().LastDiceResult; last != nil {
			steps = last.Total
		}
	}
	if steps <= 0 {
		return &MovePlayerOutput{Dropped: true, Reason: "no steps to move"}, nil
	}

	before := c.stateStore.GetState()
	oldPosition := 0
	if me := c.rosterEntry(before); me != nil {
		oldPosition = me.Position
	}

	c.bus.Emit(models.EventMoveStart, nil)

	callCtx, cancel := context.WithTimeout(ctx, c.actionTimeout)
	defer cancel()

	resp, err := c.gateway.Move(callCtx, &gateway.MoveInput{
		RoomID:  roomID,
		Steps:   steps,
		IsInner: input.IsInner,
		Track:   models.TrackName(input.IsInner),
	})
	if err != nil {
		if gateway.IsBadRequest(err) {
			log.Printf("turn: move rejected by server: %v", err)
			c.bus.Emit(models.EventMoveError, err.Error())
			c.refreshState(ctx)
			return &MovePlayerOutput{Dropped: true, Reason: ReasonNotYourTurn}, nil
		}
		c.bus.Emit(models.EventMoveError, err.Error())
		return nil, fmt.Errorf("failed to move: %w", err)
	}

	if resp.State != nil {
		if _, err := c.stateStore.UpdateFromServer(ctx, &state.UpdateFromServerInput{Payload: resp.State}); err != nil {
			log.Printf("turn: failed to apply move state: %v", err)
		}
	}

	out := &MovePlayerOutput{Steps: steps}
	switch {
	case resp.MoveResult != nil:
		// The server's position is authoritative for the roster too,
		// whether or not a state fragment came with it.
		out.NewPosition = models.WrapPosition(resp.MoveResult.NewPosition, input.IsInner)
		c.applyPosition(ctx, out.NewPosition, input.IsInner)
	case resp.State != nil:
		if me := c.rosterEntry(c.stateStore.GetState()); me != nil {
			out.NewPosition = me.Position
		}
	default:
		// Server acknowledged without a position; advance the local
		// roster entry ourselves.
		out.NewPosition = models.WrapPosition(oldPosition+steps, input.IsInner)
		c.applyPosition(ctx, out.NewPosition, input.IsInner)
	}

	if err := c.stateStore.ClearDiceResult(ctx); err != nil {
		log.Printf("turn: failed to clear dice result: %v", err)
	}

	c.bus.Emit(models.EventMoveSuccess, nil)
	c.bus.Emit(models.EventPlayerMoved, &models.PlayerMove{
		Player:      c.rosterEntry(c.stateStore.GetState()),
		OldPosition: oldPosition,
		NewPosition: out.NewPosition,
		Steps:       steps,
	})

	return out, nil
}

// EndTurn hands the turn to the next player
func (c *coordinator) EndTurn(ctx context.Context, input *EndTurnInput) (*EndTurnOutput, error) {
	roomID := c.stateStore.RoomID()
	if roomID == "" {
		return nil, ErrMissingRoomID
	}

	c.mu.Lock()
	if c.inFlight[ActionEndTurn] {
		c.mu.Unlock()
		return nil, ErrActionInFlight
	}
	c.inFlight[ActionEndTurn] = true
	c.mu.Unlock()

	defer c.clearInFlight(ActionEndTurn)
	defer c.bus.Emit(models.EventEndFinish, nil)

	if !c.IsMyTurn(nil) {
		return nil, ErrNotYourTurn
	}
	if !permissionFlag(c.stateStore.GetState(), ActionEndTurn) {
		return &EndTurnOutput{Dropped: true, Reason: ReasonNotPermitted}, nil
	}

	c.bus.Emit(models.EventEndStart, nil)

	callCtx, cancel := context.WithTimeout(ctx, c.actionTimeout)
	defer cancel()

	resp, err := c.gateway.EndTurn(callCtx, &gateway.EndTurnInput{RoomID: roomID})
	if err != nil {
		if gateway.IsBadRequest(err) {
			log.Printf("turn: end turn rejected by server: %v", err)
			c.bus.Emit(models.EventEndError, err.Error())
			c.refreshState(ctx)
			return &EndTurnOutput{Dropped: true, Reason: ReasonNotYourTurn}, nil
		}
		c.bus.Emit(models.EventEndError, err.Error())
		return nil, fmt.Errorf("failed to end turn: %w", err)
	}

	out := &EndTurnOutput{}
	if resp.State != nil {
		if _, err := c.stateStore.UpdateFromServer(ctx, &state.UpdateFromServerInput{Payload: resp.State}); err != nil {
			log.Printf("turn: failed to apply end-turn state: %v", err)
		}
		out.ActivePlayer = c.stateStore.GetState().ActivePlayer
	} else {
		// Server acknowledged without a state fragment: advance the
		// turn locally.
		passed, err := c.stateStore.PassTurnToNextPlayer(ctx, &state.PassTurnInput{})
		if err != nil {
			log.Printf("turn: failed to pass turn locally: %v", err)
		} else {
			out.ActivePlayer = passed.ActivePlayer
		}
	}

	if err := c.stateStore.ClearDiceResult(ctx); err != nil {
		log.Printf("turn: failed to clear dice result: %v", err)
	}

	c.bus.Emit(models.EventEndSuccess, out.ActivePlayer)
	return out, nil
}

// IsMyTurn reports whether the local player owns the current turn.
// Matching prefers userId, then id; a username-only match counts only
// when no id places the local player elsewhere in the roster. A solo
// roster is always the local player's turn.
func (c *coordinator) IsMyTurn(input *IsMyTurnInput) bool {
	if c.demoMode {
		return true
	}

	id := c.identity
	if input != nil && input.Identity != nil {
		id = *input.Identity
	}

	snapshot := c.stateStore.GetState()
	if len(snapshot.Players) <= 1 {
		return true
	}

	active := snapshot.ActivePlayer
	if active == nil {
		return false
	}

	if userID := id.BestUserID(); userID != "" {
		if active.UserID == userID || active.ID == userID {
			return true
		}
	}

	if id.Username == "" || id.Username != active.Username {
		return false
	}

	// Username matched. A known id must also place the local player on
	// the active roster entry; an id pinned elsewhere, or absent from
	// the roster entirely, makes the match a coincidence.
	if userID := id.BestUserID(); userID != "" {
		for _, p := range snapshot.Players {
			if p.UserID == userID || p.ID == userID {
				return p.ID == active.ID
			}
		}
		return false
	}
	return true
}

// CanRoll reports whether a roll would pass every precondition
func (c *coordinator) CanRoll() bool {
	return c.CanPerformAction(&CanPerformActionInput{Action: ActionRoll}).CanPerform
}

// CanMove reports whether a move would pass every precondition
func (c *coordinator) CanMove() bool {
	return c.CanPerformAction(&CanPerformActionInput{Action: ActionMove}).CanPerform
}

// CanEndTurn reports whether ending the turn would pass every
// precondition
func (c *coordinator) CanEndTurn() bool {
	return c.CanPerformAction(&CanPerformActionInput{Action: ActionEndTurn}).CanPerform
}

// CanPerformAction evaluates every precondition for an action. All
// checks run even after one fails so UI can show the full breakdown.
func (c *coordinator) CanPerformAction(input *CanPerformActionInput) *CanPerformActionOutput {
	if input == nil {
		input = &CanPerformActionInput{}
	}
	action := input.Action
	if action == "" {
		action = ActionRoll
	}

	snapshot := c.stateStore.GetState()

	checks := []Check{
		{Name: "game_started", Passed: snapshot.GameStarted, Detail: ReasonNotStarted},
	}
	if !input.SkipTurnCheck {
		owns := false
		if input.Player != nil {
			owns = c.playerOwnsTurn(input.Player)
		} else {
			owns = c.IsMyTurn(nil)
		}
		checks = append(checks, Check{Name: "my_turn", Passed: owns, Detail: ReasonNotYourTurn})
	}
	if input.RequireToken {
		checks = append(checks, Check{Name: "token", Passed: c.tokenMatches(snapshot, input.Player), Detail: ReasonNotYourTurn})
	}
	checks = append(checks,
		Check{Name: "permitted", Passed: permissionFlag(snapshot, action), Detail: ReasonNotPermitted},
		Check{Name: "not_in_flight", Passed: !c.actionInFlight(action), Detail: ReasonInFlight},
	)

	if action == ActionRoll {
		c.mu.Lock()
		cooled := c.lastRollAt.IsZero() || c.clock.Now().Sub(c.lastRollAt) >= c.rollCooldown
		c.mu.Unlock()
		checks = append(checks, Check{Name: "cooldown", Passed: cooled, Detail: ReasonCooldown})
	}

	out := &CanPerformActionOutput{CanPerform: true, Checks: checks}
	for _, check := range checks {
		if !check.Passed {
			out.CanPerform = false
			out.Reason = check.Detail
			break
		}
	}
	return out
}

// PreviewRoll produces a local, non-authoritative roll for immediate
// feedback
func (c *coordinator) PreviewRoll(choice dice.Choice) *models.DiceResult {
	if c.roller == nil {
		return nil
	}
	return c.roller.Roll(choice)
}

// permissionFlag reads the server's flag for an action. An unstated
// flag permits: the server simply has not weighed in yet.
func permissionFlag(snapshot *models.SessionState, action Action) bool {
	var flag *bool
	switch action {
	case ActionRoll:
		flag = snapshot.CanRoll
	case ActionMove:
		flag = snapshot.CanMove
	case ActionEndTurn:
		flag = snapshot.CanEndTurn
	}
	return flag == nil || *flag
}

// moveFlagPermits gates the auto-move chain on the post-roll state.
func (c *coordinator) moveFlagPermits() bool {
	return permissionFlag(c.stateStore.GetState(), ActionMove)
}

func (c *coordinator) actionInFlight(action Action) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight[action]
}

func (c *coordinator) clearInFlight(action Action) {
	c.mu.Lock()
	delete(c.inFlight, action)
	c.mu.Unlock()
}

// rosterEntry returns the local player's roster record, or nil.
func (c *coordinator) rosterEntry(snapshot *models.SessionState) *models.Player {
	for _, p := range snapshot.Players {
		if c.identity.Matches(p) {
			return p
		}
	}
	return nil
}

// applyPosition writes a settled position to the local roster entry.
func (c *coordinator) applyPosition(ctx context.Context, position int, inner bool) {
	me := c.rosterEntry(c.stateStore.GetState())
	if me == nil {
		return
	}
	moved := *me
	moved.Position = position
	moved.IsInner = inner
	if err := c.stateStore.UpdatePlayer(ctx, &state.UpdatePlayerInput{Player: &moved}); err != nil {
		log.Printf("turn: failed to apply move position: %v", err)
	}
}

// tokenMatches reports whether the checked player's token is the
// active player's token. Stricter than playerOwnsTurn: a missing
// token on either side fails.
func (c *coordinator) tokenMatches(snapshot *models.SessionState, p *models.Player) bool {
	if p == nil {
		p = c.rosterEntry(snapshot)
	}
	active := snapshot.ActivePlayer
	if p == nil || active == nil {
		return false
	}
	return p.Token != "" && p.Token == active.Token
}

// playerOwnsTurn reports whether the supplied roster entry holds the
// turn, including the token when both sides carry one.
func (c *coordinator) playerOwnsTurn(p *models.Player) bool {
	active := c.stateStore.GetState().ActivePlayer
	if active == nil || !models.SamePlayer(active, p) {
		return false
	}
	if p.Token != "" && active.Token != "" && p.Token != active.Token {
		return false
	}
	return true
}

// refreshState forces a resync after the server rejected an action the
// client thought was legal.
func (c *coordinator) refreshState(ctx context.Context) {
	if _, err := c.stateStore.FetchGameState(ctx, &state.FetchGameStateInput{Force: true}); err != nil {
		log.Printf("turn: failed to refresh state: %v", err)
	}
}
