package state

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/singleflight"

	"github.com/auramoney/gameclient/internal/common/clock"
	"github.com/auramoney/gameclient/internal/events"
	"github.com/auramoney/gameclient/internal/gateway"
	"github.com/auramoney/gameclient/internal/models"
	snapshotRepo "github.com/auramoney/gameclient/internal/repositories/snapshot"
)

// store implements the Service interface
type store struct {
	gateway   gateway.ServerGateway
	repo      snapshotRepo.Repository
	bus       *events.Bus
	debouncer *events.Debouncer
	clock     clock.Clock

	freshness      time.Duration
	fetchTimeout   time.Duration
	recursionLimit int

	// committing enforces one commit at a time; a concurrent commit
	// attempt is dropped, not queued.
	committing atomic.Bool

	// updateDepth caps feedback loops where a notification handler
	// calls back into UpdateFromServer.
	updateDepth atomic.Int32

	mu               sync.Mutex
	roomID           string
	current          *models.SessionState
	memo             *models.SessionState
	destroyed        bool
	lastFetchAt      time.Time
	rateLimitedUntil time.Time
	backoff          *backoff.ExponentialBackOff

	fetchGroup singleflight.Group
	breaker    *breaker
}

// New creates a new state store, rehydrating the persisted snapshot
// for the configured room when one exists.
func New(ctx context.Context, cfg *Config) (*store, error) {
	if cfg == nil {
		return nil, ErrNilConfig
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

	freshness := cfg.FreshnessWindow
	if freshness <= 0 {
		freshness = DefaultFreshnessWindow
	}
	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	threshold := cfg.ErrorThreshold
	if threshold <= 0 {
		threshold = DefaultErrorThreshold
	}
	cooldown := cfg.BreakerCooldown
	if cooldown <= 0 {
		cooldown = DefaultBreakerCooldown
	}
	recursionLimit := cfg.RecursionLimit
	if recursionLimit <= 0 {
		recursionLimit = DefaultRecursionLimit
	}

	debouncer, err := events.NewDebouncer(&events.DebouncerConfig{
		Bus:    cfg.Bus,
		Clock:  cfg.Clock,
		Window: cfg.DebounceWindow,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create debouncer: %w", err)
	}

	s := &store{
		gateway:        cfg.Gateway,
		repo:           cfg.SnapshotRepo,
		bus:            cfg.Bus,
		debouncer:      debouncer,
		clock:          cfg.Clock,
		freshness:      freshness,
		fetchTimeout:   fetchTimeout,
		recursionLimit: recursionLimit,
		roomID:         cfg.RoomID,
		current:        models.NewSessionState(),
		backoff:        newFetchBackoff(cfg),
		breaker:        newBreaker(cfg.Clock, threshold, cooldown),
	}
	s.current.RoomID = cfg.RoomID

	// A subscriber blowing up during notification dispatch is an
	// internal failure like any other.
	cfg.Bus.NotifyPanics(func(event string, recovered interface{}) {
		s.breaker.failure()
	})

	if hydrated := s.hydrate(ctx, cfg.RoomID); hydrated != nil {
		s.current = hydrated
	}

	return s, nil
}

func newFetchBackoff(cfg *Config) *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = cfg.BackoffInitial
	if bo.InitialInterval <= 0 {
		bo.InitialInterval = DefaultBackoffInitial
	}
	bo.Multiplier = cfg.BackoffMultiplier
	if bo.Multiplier <= 1 {
		bo.Multiplier = DefaultBackoffMultiplier
	}
	bo.MaxInterval = cfg.BackoffMax
	if bo.MaxInterval <= 0 {
		bo.MaxInterval = DefaultBackoffMax
	}
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0
	bo.Clock = cfg.Clock
	bo.Reset()
	return bo
}

// hydrate loads the persisted snapshot for a room, falling back to the
// global slot. Returns nil when nothing usable is stored.
func (s *store) hydrate(ctx context.Context, roomID string) *models.SessionState {
	if s.repo == nil {
		return nil
	}

	stored, err := s.repo.GetSnapshot(ctx, &snapshotRepo.GetSnapshotInput{RoomID: roomID})
	if err != nil && roomID != "" {
		stored, err = s.repo.GetSnapshot(ctx, &snapshotRepo.GetSnapshotInput{})
	}
	if err != nil {
		if !errors.Is(err, snapshotRepo.ErrSnapshotNotFound) {
			log.Printf("state: failed to load persisted snapshot: %v", err)
		}
		return nil
	}
	if stored.Players == nil {
		stored.Players = []*models.Player{}
	}
	if roomID != "" {
		stored.RoomID = roomID
	}
	return stored
}

// UpdateFromServer merges a server state payload into a new snapshot
// and commits it when anything actually changed
func (s *store) UpdateFromServer(ctx context.Context, input *UpdateFromServerInput) (*UpdateFromServerOutput, error) {
	if input == nil || input.Payload == nil {
		return nil, ErrNilPayload
	}

	depth := s.updateDepth.Add(1)
	defer s.updateDepth.Add(-1)
	if int(depth) > s.recursionLimit {
		return nil, ErrRecursionLimit
	}

	out := &UpdateFromServerOutput{}
	err := s.commit(ctx, func(prev *models.SessionState) (*models.SessionState, []notification, error) {
		next, ch := mergePayload(prev, input.Payload)
		if !ch.any() {
			return nil, nil, nil
		}

		out.Committed = true
		out.TurnChanged = ch.turnChanged
		out.PlayersChanged = ch.playersChanged

		ns := []notification{{models.EventStateUpdated, next.Clone()}}
		if ch.turnChanged {
			ns = append(ns, notification{models.EventTurnChanged, &models.TurnChange{
				ActivePlayer:   clonePlayer(next.ActivePlayer),
				PreviousPlayer: clonePlayer(prev.ActivePlayer),
			}})
		}
		if ch.playersChanged {
			update := &models.PlayersUpdate{
				Players: next.Clone().Players,
				Added:   len(next.Players) > len(prev.Players),
			}
			ns = append(ns, notification{models.EventPlayersUpdated, update})
			ns = append(ns, notification{models.EventGamePlayersUpdated, update})
		}
		return next, ns, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FetchGameState pulls the authoritative state from the server,
// honoring freshness, in-flight de-duplication and rate limits
func (s *store) FetchGameState(ctx context.Context, input *FetchGameStateInput) (*FetchGameStateOutput, error) {
	if input == nil {
		input = &FetchGameStateInput{}
	}

	roomID := input.RoomID
	if roomID == "" {
		roomID = s.RoomID()
	}
	if roomID == "" {
		return nil, ErrMissingRoomID
	}

	now := s.clock.Now()

	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return nil, ErrStoreDestroyed
	}
	if !input.Force && !s.lastFetchAt.IsZero() && now.Sub(s.lastFetchAt) < s.freshness {
		s.mu.Unlock()
		return &FetchGameStateOutput{State: s.GetState()}, nil
	}
	if now.Before(s.rateLimitedUntil) {
		s.mu.Unlock()
		return &FetchGameStateOutput{Throttled: true}, nil
	}
	s.mu.Unlock()

	result, err, _ := s.fetchGroup.Do(roomID, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()

		resp, err := s.gateway.GetGameState(fetchCtx, &gateway.GetGameStateInput{RoomID: roomID})
		if err != nil {
			s.noteFetchFailure(err)
			return nil, err
		}

		s.noteFetchSuccess()

		if resp.State != nil {
			if _, err := s.UpdateFromServer(ctx, &UpdateFromServerInput{Payload: resp.State}); err != nil {
				log.Printf("state: failed to apply fetched state: %v", err)
			}
		}
		return s.GetState(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch game state: %w", err)
	}

	return &FetchGameStateOutput{State: result.(*models.SessionState)}, nil
}

// noteFetchFailure arms the local throttle: the server's Retry-After
// when it sent one, the exponential schedule otherwise.
func (s *store) noteFetchFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delay, rateLimited := gateway.IsRateLimited(err)
	if !rateLimited || delay <= 0 {
		delay = s.backoff.NextBackOff()
	}
	s.rateLimitedUntil = s.clock.Now().Add(delay)
}

func (s *store) noteFetchSuccess() {
	s.mu.Lock()
	s.lastFetchAt = s.clock.Now()
	s.rateLimitedUntil = time.Time{}
	s.backoff.Reset()
	s.mu.Unlock()

	s.breaker.success()
}

// SetRoomID scopes the store to a room and rehydrates its persisted
// snapshot
func (s *store) SetRoomID(ctx context.Context, input *SetRoomIDInput) error {
	if input == nil {
		return ErrNilPayload
	}

	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return ErrStoreDestroyed
	}
	s.roomID = input.RoomID
	s.mu.Unlock()

	if hydrated := s.hydrate(ctx, input.RoomID); hydrated != nil {
		return s.commit(ctx, func(prev *models.SessionState) (*models.SessionState, []notification, error) {
			return hydrated, []notification{{models.EventStateUpdated, hydrated.Clone()}}, nil
		})
	}

	return s.commit(ctx, func(prev *models.SessionState) (*models.SessionState, []notification, error) {
		if prev.RoomID == input.RoomID {
			return nil, nil, nil
		}
		next := prev.Clone()
		next.RoomID = input.RoomID
		return next, []notification{{models.EventStateUpdated, next.Clone()}}, nil
	})
}

// AddPlayer inserts or replaces a roster entry
func (s *store) AddPlayer(ctx context.Context, input *AddPlayerInput) error {
	if input == nil || input.Player == nil {
		return ErrNilPlayer
	}

	return s.commit(ctx, func(prev *models.SessionState) (*models.SessionState, []notification, error) {
		next := prev.Clone()

		player, ok := models.NormalizePlayer(input.Player, len(next.Players))
		if !ok {
			return nil, nil, ErrNilPlayer
		}

		replaced := false
		for i, p := range next.Players {
			if p.ID == player.ID {
				next.Players[i] = player
				replaced = true
				break
			}
		}
		if !replaced {
			next.Players = append(next.Players, player)
		}

		return next, []notification{
			{models.EventPlayerAdded, clonePlayer(player)},
			{models.EventPlayersUpdated, &models.PlayersUpdate{Players: next.Clone().Players, Added: !replaced}},
			{models.EventStateUpdated, next.Clone()},
		}, nil
	})
}

// UpdatePlayer merges fields into an existing roster entry
func (s *store) UpdatePlayer(ctx context.Context, input *UpdatePlayerInput) error {
	if input == nil || input.Player == nil {
		return ErrNilPlayer
	}

	return s.commit(ctx, func(prev *models.SessionState) (*models.SessionState, []notification, error) {
		next := prev.Clone()

		var updated *models.Player
		for i, p := range next.Players {
			if p.ID == input.Player.ID || models.SamePlayer(p, input.Player) {
				merged := *p
				if input.Player.Username != "" {
					merged.Username = input.Player.Username
				}
				if input.Player.Token != "" {
					merged.Token = input.Player.Token
				}
				merged.Money = input.Player.Money
				merged.Position = input.Player.Position
				merged.IsInner = input.Player.IsInner
				merged.IsReady = input.Player.IsReady
				next.Players[i] = &merged
				updated = &merged
				break
			}
		}
		if updated == nil {
			return nil, nil, ErrPlayerNotFound
		}

		// Keep the resolved active player in step with its roster entry.
		if next.ActivePlayer != nil && next.ActivePlayer.ID == updated.ID {
			cp := *updated
			next.ActivePlayer = &cp
		}

		return next, []notification{
			{models.EventPlayerEdited, clonePlayer(updated)},
			{models.EventStateUpdated, next.Clone()},
		}, nil
	})
}

// RemovePlayer drops a roster entry
func (s *store) RemovePlayer(ctx context.Context, input *RemovePlayerInput) error {
	if input == nil || input.PlayerID == "" {
		return ErrNilPlayer
	}

	return s.commit(ctx, func(prev *models.SessionState) (*models.SessionState, []notification, error) {
		next := prev.Clone()

		var removed *models.Player
		remaining := make([]*models.Player, 0, len(next.Players))
		for _, p := range next.Players {
			if p.ID == input.PlayerID {
				removed = p
				continue
			}
			remaining = append(remaining, p)
		}
		if removed == nil {
			return nil, nil, ErrPlayerNotFound
		}
		next.Players = remaining

		if len(next.Players) == 0 {
			next.CurrentPlayerIndex = 0
			next.ActivePlayer = nil
		} else {
			if next.CurrentPlayerIndex >= len(next.Players) {
				next.CurrentPlayerIndex = 0
			}
			if next.ActivePlayer != nil && next.ActivePlayer.ID == removed.ID {
				cp := *next.Players[next.CurrentPlayerIndex]
				next.ActivePlayer = &cp
			}
		}

		return next, []notification{
			{models.EventPlayerGone, clonePlayer(removed)},
			{models.EventPlayersUpdated, &models.PlayersUpdate{Players: next.Clone().Players}},
			{models.EventStateUpdated, next.Clone()},
		}, nil
	})
}

// SetActivePlayer marks a roster entry as the active player
func (s *store) SetActivePlayer(ctx context.Context, input *SetActivePlayerInput) error {
	if input == nil || input.PlayerID == "" {
		return ErrNilPlayer
	}

	return s.commit(ctx, func(prev *models.SessionState) (*models.SessionState, []notification, error) {
		next := prev.Clone()

		idx := -1
		for i, p := range next.Players {
			if p.ID == input.PlayerID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, nil, ErrPlayerNotFound
		}

		previous := next.ActivePlayer
		cp := *next.Players[idx]
		next.ActivePlayer = &cp
		next.CurrentPlayerIndex = idx

		return next, []notification{
			{models.EventTurnChanged, &models.TurnChange{
				ActivePlayer:   clonePlayer(next.ActivePlayer),
				PreviousPlayer: clonePlayer(previous),
			}},
			{models.EventStateUpdated, next.Clone()},
		}, nil
	})
}

// PassTurnToNextPlayer advances the turn round-robin
func (s *store) PassTurnToNextPlayer(ctx context.Context, input *PassTurnInput) (*PassTurnOutput, error) {
	out := &PassTurnOutput{}
	err := s.commit(ctx, func(prev *models.SessionState) (*models.SessionState, []notification, error) {
		if len(prev.Players) == 0 {
			return nil, nil, ErrNoPlayers
		}

		next := prev.Clone()
		previous := next.ActivePlayer

		next.CurrentPlayerIndex = (next.CurrentPlayerIndex + 1) % len(next.Players)
		cp := *next.Players[next.CurrentPlayerIndex]
		next.ActivePlayer = &cp

		out.CurrentPlayerIndex = next.CurrentPlayerIndex
		out.ActivePlayer = clonePlayer(next.ActivePlayer)

		return next, []notification{
			{models.EventTurnChanged, &models.TurnChange{
				ActivePlayer:   clonePlayer(next.ActivePlayer),
				PreviousPlayer: clonePlayer(previous),
			}},
			{models.EventStateUpdated, next.Clone()},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateDiceResult records the latest roll
func (s *store) UpdateDiceResult(ctx context.Context, input *UpdateDiceResultInput) error {
	if input == nil || input.Result == nil {
		return ErrInvalidDiceResult
	}

	return s.commit(ctx, func(prev *models.SessionState) (*models.SessionState, []notification, error) {
		next := prev.Clone()
		next.LastDiceResult = input.Result.Clone()

		return next, []notification{
			{models.EventDiceRolled, input.Result.Clone()},
			{models.EventStateUpdated, next.Clone()},
		}, nil
	})
}

// ClearDiceResult discards the recorded roll once it has been spent
func (s *store) ClearDiceResult(ctx context.Context) error {
	return s.commit(ctx, func(prev *models.SessionState) (*models.SessionState, []notification, error) {
		if prev.LastDiceResult == nil {
			return nil, nil, nil
		}
		next := prev.Clone()
		next.LastDiceResult = nil

		return next, []notification{
			{models.EventStateUpdated, next.Clone()},
		}, nil
	})
}

// GetState returns a defensive copy of the current snapshot. The
// projection is memoized and recomputed lazily after each commit.
func (s *store) GetState() *models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.memo == nil {
		s.memo = s.current.Clone()
	}
	return s.memo.Clone()
}

// RoomID returns the room the store is scoped to
func (s *store) RoomID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomID
}

// On subscribes a handler to an event name
func (s *store) On(event string, h events.Handler) events.Subscription {
	return s.bus.On(event, h)
}

// Off removes a subscription
func (s *store) Off(sub events.Subscription) {
	s.bus.Off(sub)
}

// Clear resets the session to empty
func (s *store) Clear(ctx context.Context) error {
	roomID := s.RoomID()

	err := s.commit(ctx, func(prev *models.SessionState) (*models.SessionState, []notification, error) {
		next := models.NewSessionState()
		return next, []notification{{models.EventStateCleared, struct{}{}}}, nil
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.roomID = ""
	s.lastFetchAt = time.Time{}
	s.rateLimitedUntil = time.Time{}
	s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.DeleteSnapshot(ctx, &snapshotRepo.DeleteSnapshotInput{RoomID: roomID}); err != nil {
			log.Printf("state: failed to delete persisted snapshot: %v", err)
		}
	}
	return nil
}

// Destroy releases listeners and timers
func (s *store) Destroy() {
	s.mu.Lock()
	s.destroyed = true
	s.mu.Unlock()

	s.debouncer.Close()
	s.bus.Clear()
}

// notification pairs an event name with its payload.
type notification struct {
	event   string
	payload interface{}
}

// commit runs one exclusive state transition: build the next snapshot
// from the previous one, swap it in, persist it, queue notifications.
// A concurrent commit attempt is dropped with ErrCommitInProgress.
// Internal failures are counted toward the circuit breaker and never
// leave the store stuck mid-commit.
func (s *store) commit(ctx context.Context, build func(prev *models.SessionState) (*models.SessionState, []notification, error)) (err error) {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return ErrStoreDestroyed
	}
	s.mu.Unlock()

	if s.breaker.open() {
		// Self-protection: mutations silently no-op while the breaker
		// cools down.
		return nil
	}

	if !s.committing.CompareAndSwap(false, true) {
		return ErrCommitInProgress
	}
	defer s.committing.Store(false)

	defer func() {
		if r := recover(); r != nil {
			s.breaker.failure()
			log.Printf("state: commit panicked: %v", r)
			err = nil
		}
	}()

	next, notifications, roomID, buildErr := s.swapNext(build)
	if buildErr != nil {
		// Precondition violations are the caller's problem, not a
		// systemic failure; they do not count toward the breaker.
		return buildErr
	}
	if next == nil {
		return nil
	}

	persisted := s.persist(ctx, roomID, next)

	for _, n := range notifications {
		s.debouncer.Publish(n.event, n.payload)
	}

	if persisted {
		s.breaker.success()
	}
	return nil
}

// swapNext builds and installs the next snapshot under the lock. The
// deferred unlock keeps a panicking build from leaking the mutex.
func (s *store) swapNext(build func(prev *models.SessionState) (*models.SessionState, []notification, error)) (*models.SessionState, []notification, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, notifications, err := build(s.current)
	if err != nil || next == nil {
		return nil, nil, "", err
	}

	now := s.clock.Now()
	if now.Before(s.current.UpdatedAt) {
		now = s.current.UpdatedAt
	}
	next.UpdatedAt = now

	s.current = next
	s.memo = nil
	return next, notifications, s.roomID, nil
}

// persist writes the committed snapshot through the repository.
// Failures degrade (breaker) but never fail the commit.
func (s *store) persist(ctx context.Context, roomID string, next *models.SessionState) bool {
	if s.repo == nil {
		return true
	}

	err := s.repo.SaveSnapshot(ctx, &snapshotRepo.SaveSnapshotInput{
		RoomID: roomID,
		State:  next.Clone(),
	})
	if err != nil {
		s.breaker.failure()
		log.Printf("state: failed to persist snapshot: %v", err)
		return false
	}
	return true
}

func clonePlayer(p *models.Player) *models.Player {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
