package profile

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/auramoney/gameclient/internal/repositories/profile Repository

import "context"

// Repository defines the interface for the persisted user profile.
// The profile is the fallback identity record used when no live
// session bundle is available.
type Repository interface {
	// SaveProfile persists the user profile
	SaveProfile(ctx context.Context, input *SaveProfileInput) error

	// GetProfile retrieves the persisted user profile
	GetProfile(ctx context.Context, input *GetProfileInput) (*Profile, error)
}
