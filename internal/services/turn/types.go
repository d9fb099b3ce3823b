package turn

import (
	"time"

	"github.com/auramoney/gameclient/internal/common/clock"
	"github.com/auramoney/gameclient/internal/dice"
	"github.com/auramoney/gameclient/internal/events"
	"github.com/auramoney/gameclient/internal/gateway"
	"github.com/auramoney/gameclient/internal/identity"
	"github.com/auramoney/gameclient/internal/models"
	"github.com/auramoney/gameclient/internal/services/state"
)

// Action names a turn action for in-flight tracking and permission
// checks.
type Action string

const (
	ActionRoll    Action = "roll"
	ActionMove    Action = "move"
	ActionEndTurn Action = "endTurn"
)

// Drop reasons reported when an action is skipped without reaching the
// server.
const (
	ReasonInFlight     = "action already in flight"
	ReasonCooldown     = "roll cooldown has not elapsed"
	ReasonNotYourTurn  = "not your turn"
	ReasonNotStarted   = "game has not started"
	ReasonNotPermitted = "server has not permitted the action"
)

// Defaults applied when Config leaves the tunables zero.
const (
	DefaultRollCooldown  = time.Second
	DefaultActionTimeout = 15 * time.Second
)

// Config holds configuration for the turn coordinator
type Config struct {
	// StateStore is the session state authority
	StateStore state.Service

	// Gateway is the server transport
	Gateway gateway.ServerGateway

	// Bus receives action lifecycle events, emitted immediately
	Bus *events.Bus

	Clock clock.Clock

	// Roller produces the local preview roll shown while the server
	// round trip is in flight; optional
	Roller dice.Roller

	// Identity is the local player
	Identity identity.Identity

	// RollCooldown is the minimum gap between two rolls
	RollCooldown time.Duration

	// ActionTimeout bounds each server round trip
	ActionTimeout time.Duration

	// DemoMode treats every turn as the local player's
	DemoMode bool
}

// RollDiceInput contains parameters for rolling
type RollDiceInput struct {
	// DiceChoice is "single" or "double"; defaults to double
	DiceChoice dice.Choice

	// IsReroll marks a reroll granted by a board effect
	IsReroll bool

	// DisableAutoMove suppresses the chained move so the caller can
	// drive movement itself
	DisableAutoMove bool
}

// RollDiceOutput reports what the roll did
type RollDiceOutput struct {
	// Dropped is set when the roll never reached the server; Reason
	// says why
	Dropped bool
	Reason  string

	// DiceResult is the server's authoritative roll
	DiceResult *models.DiceResult

	// Moved is set when the roll auto-chained into a move
	Moved bool

	// NewPosition is the position after the auto-move, when Moved
	NewPosition int
}

// MovePlayerInput contains parameters for moving
type MovePlayerInput struct {
	// Steps to advance; defaults to the last dice total
	Steps int

	// IsInner moves on the inner track
	IsInner bool

	// Player optionally names the roster entry the move is for; the
	// move is rejected unless that entry (token included, when both
	// sides carry one) holds the turn
	Player *models.Player
}

// MovePlayerOutput reports the move
type MovePlayerOutput struct {
	Dropped bool
	Reason  string

	Steps       int
	NewPosition int
}

// EndTurnInput contains parameters for ending the turn
type EndTurnInput struct {
}

// EndTurnOutput reports the turn handoff
type EndTurnOutput struct {
	Dropped bool
	Reason  string

	// ActivePlayer is the player whose turn it now is
	ActivePlayer *models.Player
}

// IsMyTurnInput optionally overrides the coordinator's identity
type IsMyTurnInput struct {
	Identity *identity.Identity
}

// Check is one precondition verdict inside a CanPerformActionOutput.
type Check struct {
	Name   string
	Passed bool
	Detail string
}

// CanPerformActionInput names the action to evaluate and how strictly
// ownership is checked
type CanPerformActionInput struct {
	Action Action

	// Player scopes the ownership checks to a specific roster entry
	// instead of the resolved local identity
	Player *models.Player

	// SkipTurnCheck drops the ownership requirement
	SkipTurnCheck bool

	// RequireToken additionally requires the checked player's token to
	// match the active player's
	RequireToken bool
}

// CanPerformActionOutput is the full precondition breakdown for an
// action. Reason carries the first failed check's detail.
type CanPerformActionOutput struct {
	CanPerform bool
	Reason     string
	Checks     []Check
}
