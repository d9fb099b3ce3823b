package state

import (
	"time"

	"github.com/auramoney/gameclient/internal/common/clock"
	"github.com/auramoney/gameclient/internal/events"
	"github.com/auramoney/gameclient/internal/gateway"
	"github.com/auramoney/gameclient/internal/models"
	snapshotRepo "github.com/auramoney/gameclient/internal/repositories/snapshot"
)

// Defaults applied when Config leaves the tunables zero.
const (
	DefaultFreshnessWindow   = 2 * time.Second
	DefaultFetchTimeout      = 5 * time.Second
	DefaultBackoffInitial    = 10 * time.Second
	DefaultBackoffMultiplier = 2.0
	DefaultBackoffMax        = 120 * time.Second
	DefaultErrorThreshold    = 10
	DefaultBreakerCooldown   = 30 * time.Second
	DefaultRecursionLimit    = 3
)

// Config holds configuration for the state store
type Config struct {
	// Gateway is the server transport
	Gateway gateway.ServerGateway

	// SnapshotRepo persists snapshots across sessions; optional
	SnapshotRepo snapshotRepo.Repository

	// Bus receives all notifications
	Bus *events.Bus

	Clock clock.Clock

	// RoomID scopes the store from construction; optional
	RoomID string

	// DebounceWindow is the notification coalescing window
	DebounceWindow time.Duration

	// FreshnessWindow is how long a fetched state stays fresh
	FreshnessWindow time.Duration

	// FetchTimeout bounds each state fetch
	FetchTimeout time.Duration

	// Backoff schedule applied to failed fetches
	BackoffInitial    time.Duration
	BackoffMultiplier float64
	BackoffMax        time.Duration

	// ErrorThreshold is the circuit breaker's trip count
	ErrorThreshold int

	// BreakerCooldown is how long the breaker stays open
	BreakerCooldown time.Duration

	// RecursionLimit caps nested UpdateFromServer calls
	RecursionLimit int
}

// UpdateFromServerInput contains a server state payload to merge
type UpdateFromServerInput struct {
	Payload *gateway.StatePayload
}

// UpdateFromServerOutput reports what the merge did
type UpdateFromServerOutput struct {
	// Committed is false when the payload changed nothing
	Committed bool

	// TurnChanged is set when the active player changed
	TurnChanged bool

	// PlayersChanged is set when the roster changed
	PlayersChanged bool
}

// FetchGameStateInput contains parameters for a state fetch
type FetchGameStateInput struct {
	// RoomID overrides the store's room scope; optional
	RoomID string

	// Force bypasses the freshness window
	Force bool
}

// FetchGameStateOutput contains the fetched state
type FetchGameStateOutput struct {
	// State is nil when the fetch was locally throttled
	State *models.SessionState

	// Throttled is set when the fetch was skipped because the store
	// is inside its rate-limited window
	Throttled bool
}

type SetRoomIDInput struct {
	RoomID string
}

type AddPlayerInput struct {
	Player *models.Player
}

type UpdatePlayerInput struct {
	Player *models.Player
}

type RemovePlayerInput struct {
	PlayerID string
}

type SetActivePlayerInput struct {
	PlayerID string
}

type PassTurnInput struct {
}

// PassTurnOutput reports the new turn position
type PassTurnOutput struct {
	CurrentPlayerIndex int
	ActivePlayer       *models.Player
}

type UpdateDiceResultInput struct {
	Result *models.DiceResult
}
