package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/auramoney/gameclient/internal/common/clock"
	"github.com/auramoney/gameclient/internal/common/uuid"
	"github.com/auramoney/gameclient/internal/models"
	profileRepo "github.com/auramoney/gameclient/internal/repositories/profile"
)

// Identity is the local user, resolved once and passed explicitly to
// anything that needs to know who "me" is.
type Identity struct {
	ID       string
	UserID   string
	Username string

	// Guest is set when the identity was generated locally because
	// neither a session bundle nor a stored profile existed
	Guest bool
}

// BestUserID returns the strongest identifier available: UserID first,
// ID second.
func (id Identity) BestUserID() string {
	if id.UserID != "" {
		return id.UserID
	}
	return id.ID
}

// Matches reports whether the identity refers to the given player,
// comparing userId, then id, then username, in that order.
func (id Identity) Matches(p *models.Player) bool {
	if p == nil {
		return false
	}
	if userID := id.BestUserID(); userID != "" {
		if p.UserID == userID || p.ID == userID {
			return true
		}
	}
	return id.Username != "" && p.Username == id.Username
}

// SessionBundle is the live session record handed to the client by the
// page that embeds it.
type SessionBundle struct {
	CurrentUser *Identity
}

// Config holds configuration for the identity resolver
type Config struct {
	// Bundle is the live session record, optional
	Bundle *SessionBundle

	// ProfileRepo is the persisted fallback profile, optional
	ProfileRepo profileRepo.Repository

	Clock         clock.Clock
	UUIDGenerator uuid.UUID
}

// Resolver produces the local identity.
type Resolver struct {
	bundle      *SessionBundle
	profileRepo profileRepo.Repository
	clock       clock.Clock
	uuid        uuid.UUID
}

// NewResolver creates an identity resolver
func NewResolver(cfg *Config) (*Resolver, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Clock == nil {
		return nil, errors.New("clock cannot be nil")
	}
	if cfg.UUIDGenerator == nil {
		return nil, errors.New("UUID generator cannot be nil")
	}

	return &Resolver{
		bundle:      cfg.Bundle,
		profileRepo: cfg.ProfileRepo,
		clock:       cfg.Clock,
		uuid:        cfg.UUIDGenerator,
	}, nil
}

// Resolve returns the local identity: the session bundle when present,
// the stored profile next, and a generated guest identity last.
func (r *Resolver) Resolve(ctx context.Context) (Identity, error) {
	if r.bundle != nil && r.bundle.CurrentUser != nil && r.bundle.CurrentUser.Username != "" {
		return *r.bundle.CurrentUser, nil
	}

	if r.profileRepo != nil {
		stored, err := r.profileRepo.GetProfile(ctx, &profileRepo.GetProfileInput{})
		if err == nil && stored != nil && stored.Username != "" {
			return Identity{
				ID:       stored.ID,
				UserID:   stored.UserID,
				Username: stored.Username,
			}, nil
		}
		if err != nil && !errors.Is(err, profileRepo.ErrProfileNotFound) {
			return Identity{}, fmt.Errorf("failed to load stored profile: %w", err)
		}
	}

	// Nothing stored anywhere: generate a guest identity.
	id := fmt.Sprintf("user_%d_%s", r.clock.Now().UnixMilli(), r.uuid.NewUUID()[:8])
	return Identity{
		ID:       id,
		UserID:   id,
		Username: "player1",
		Guest:    true,
	}, nil
}
