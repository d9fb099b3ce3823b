package turn

// TurnError is a custom error type for turn coordinator errors
type TurnError string

// Error implements the error interface
func (e TurnError) Error() string {
	return string(e)
}

const (
	ErrNilConfig      TurnError = "config cannot be nil"
	ErrNilStateStore  TurnError = "state store cannot be nil"
	ErrNilGateway     TurnError = "server gateway cannot be nil"
	ErrNilBus         TurnError = "event bus cannot be nil"
	ErrNilClock       TurnError = "clock cannot be nil"
	ErrNotYourTurn    TurnError = "it is not your turn"
	ErrActionInFlight TurnError = "action already in progress"
	ErrGameNotActive  TurnError = "the game has not started"
	ErrMissingRoomID  TurnError = "room ID is not set"
)
