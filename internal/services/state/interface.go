package state

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/auramoney/gameclient/internal/services/state Service

import (
	"context"

	"github.com/auramoney/gameclient/internal/events"
	"github.com/auramoney/gameclient/internal/models"
)

// Service is the session state store: the sole holder of the client's
// session state. Every mutation commits a whole new snapshot and fans
// out debounced notifications on the event bus.
type Service interface {
	// UpdateFromServer merges a server state payload into a new
	// snapshot and commits it when anything actually changed
	UpdateFromServer(ctx context.Context, input *UpdateFromServerInput) (*UpdateFromServerOutput, error)

	// FetchGameState pulls the authoritative state from the server,
	// honoring freshness, in-flight de-duplication and rate limits
	FetchGameState(ctx context.Context, input *FetchGameStateInput) (*FetchGameStateOutput, error)

	// SetRoomID scopes the store to a room and rehydrates its
	// persisted snapshot
	SetRoomID(ctx context.Context, input *SetRoomIDInput) error

	// AddPlayer inserts or replaces a roster entry
	AddPlayer(ctx context.Context, input *AddPlayerInput) error

	// UpdatePlayer merges fields into an existing roster entry
	UpdatePlayer(ctx context.Context, input *UpdatePlayerInput) error

	// RemovePlayer drops a roster entry
	RemovePlayer(ctx context.Context, input *RemovePlayerInput) error

	// SetActivePlayer marks a roster entry as the active player
	SetActivePlayer(ctx context.Context, input *SetActivePlayerInput) error

	// PassTurnToNextPlayer advances the turn round-robin
	PassTurnToNextPlayer(ctx context.Context, input *PassTurnInput) (*PassTurnOutput, error)

	// UpdateDiceResult records the latest roll
	UpdateDiceResult(ctx context.Context, input *UpdateDiceResultInput) error

	// ClearDiceResult discards the recorded roll once it has been
	// spent on a move or an ended turn
	ClearDiceResult(ctx context.Context) error

	// GetState returns a defensive copy of the current snapshot
	GetState() *models.SessionState

	// RoomID returns the room the store is scoped to
	RoomID() string

	// On subscribes a handler to an event name
	On(event string, h events.Handler) events.Subscription

	// Off removes a subscription
	Off(sub events.Subscription)

	// Clear resets the session to empty
	Clear(ctx context.Context) error

	// Destroy releases listeners and timers; the store is unusable
	// afterwards
	Destroy()
}
