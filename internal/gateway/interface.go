package gateway

//go:generate mockgen -package=mocks -destination=mocks/mock_gateway.go github.com/auramoney/gameclient/internal/gateway ServerGateway

import "context"

// ServerGateway is the client's view of the room server. Every method
// may fail with a *StatusError carrying the HTTP status and, for rate
// limits, the parsed Retry-After hint.
type ServerGateway interface {
	// GetGameState fetches the authoritative session state for a room
	GetGameState(ctx context.Context, input *GetGameStateInput) (*GetGameStateOutput, error)

	// RollDice asks the server to roll for the active player
	RollDice(ctx context.Context, input *RollDiceInput) (*RollDiceOutput, error)

	// Move advances the active player's token
	Move(ctx context.Context, input *MoveInput) (*MoveOutput, error)

	// EndTurn passes the turn to the next player
	EndTurn(ctx context.Context, input *EndTurnInput) (*EndTurnOutput, error)
}
