package state

// StateError is a custom error type for state store errors
type StateError string

// Error implements the error interface
func (e StateError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrCommitInProgress  StateError = "a commit is already in progress"
	ErrRecursionLimit    StateError = "update recursion limit reached"
	ErrMissingRoomID     StateError = "room ID is not set"
	ErrStoreDestroyed    StateError = "state store has been destroyed"
	ErrNilConfig         StateError = "config cannot be nil"
	ErrNilGateway        StateError = "server gateway cannot be nil"
	ErrNilBus            StateError = "event bus cannot be nil"
	ErrNilClock          StateError = "clock cannot be nil"
	ErrNilPayload        StateError = "payload cannot be nil"
	ErrNilPlayer         StateError = "player cannot be nil"
	ErrPlayerNotFound    StateError = "player not found"
	ErrNoPlayers         StateError = "session has no players"
	ErrInvalidDiceResult StateError = "dice result cannot be nil"
)
