package models

// Event names published on the session event bus. UI consumers
// subscribe to these by name.
const (
	// State store events
	EventStateUpdated   = "state:updated"
	EventStateCleared   = "state:cleared"
	EventTurnChanged    = "turn:changed"
	EventPlayersUpdated = "players:updated"

	// Legacy alias kept alongside players:updated for older panels
	EventGamePlayersUpdated = "game:playersUpdated"

	// Turn action lifecycle events
	EventRollStart   = "roll:start"
	EventRollSuccess = "roll:success"
	EventRollError   = "roll:error"
	EventRollFinish  = "roll:finish"

	EventMoveStart   = "move:start"
	EventMoveSuccess = "move:success"
	EventMoveError   = "move:error"
	EventMoveFinish  = "move:finish"

	EventEndStart   = "end:start"
	EventEndSuccess = "end:success"
	EventEndError   = "end:error"
	EventEndFinish  = "end:finish"

	EventDiceRolled   = "dice:rolled"
	EventPlayerMoved  = "player:moved"
	EventPlayerAdded  = "player:added"
	EventPlayerGone   = "player:removed"
	EventPlayerEdited = "player:updated"
)

// TurnChange is the payload for turn:changed events.
type TurnChange struct {
	ActivePlayer   *Player
	PreviousPlayer *Player
}

// PlayersUpdate is the payload for players:updated events.
type PlayersUpdate struct {
	Players []*Player
	Added   bool
}

// PlayerMove is the payload for player:moved events.
type PlayerMove struct {
	Player      *Player
	OldPosition int
	NewPosition int
	Steps       int
}
