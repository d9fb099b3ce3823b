package turn

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/auramoney/gameclient/internal/services/turn Service

import (
	"context"

	"github.com/auramoney/gameclient/internal/dice"
	"github.com/auramoney/gameclient/internal/models"
)

// Service coordinates the local player's turn actions against the
// server. It owns turn-ownership checks, per-action single-flight,
// roll anti-spam and the roll-into-move auto chain; all state changes
// flow through the state store.
type Service interface {
	// RollDice asks the server to roll, auto-chaining into a move
	// when the roll grants one
	RollDice(ctx context.Context, input *RollDiceInput) (*RollDiceOutput, error)

	// MovePlayer advances the local player's token
	MovePlayer(ctx context.Context, input *MovePlayerInput) (*MovePlayerOutput, error)

	// EndTurn hands the turn to the next player
	EndTurn(ctx context.Context, input *EndTurnInput) (*EndTurnOutput, error)

	// IsMyTurn reports whether the local player owns the current turn
	IsMyTurn(input *IsMyTurnInput) bool

	// CanRoll reports whether a roll would pass every precondition
	CanRoll() bool

	// CanMove reports whether a move would pass every precondition
	CanMove() bool

	// CanEndTurn reports whether ending the turn would pass every
	// precondition
	CanEndTurn() bool

	// CanPerformAction evaluates every precondition for an action and
	// reports each verdict
	CanPerformAction(input *CanPerformActionInput) *CanPerformActionOutput

	// PreviewRoll produces a local, non-authoritative roll for
	// immediate feedback
	PreviewRoll(choice dice.Choice) *models.DiceResult
}
