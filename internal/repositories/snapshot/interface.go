package snapshot

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/auramoney/gameclient/internal/repositories/snapshot Repository

import (
	"context"

	"github.com/auramoney/gameclient/internal/models"
)

// Repository defines the interface for session snapshot persistence.
// Snapshots are scoped per room; an empty room id addresses the global
// slot.
type Repository interface {
	// SaveSnapshot persists a session snapshot for a room
	SaveSnapshot(ctx context.Context, input *SaveSnapshotInput) error

	// GetSnapshot retrieves the persisted snapshot for a room
	GetSnapshot(ctx context.Context, input *GetSnapshotInput) (*models.SessionState, error)

	// DeleteSnapshot removes the persisted snapshot for a room
	DeleteSnapshot(ctx context.Context, input *DeleteSnapshotInput) error
}
