package gateway

import (
	"encoding/json"

	"github.com/auramoney/gameclient/internal/models"
)

// StatePayload is the server's session-state fragment. Every field is
// optional; absent fields leave the client's view untouched.
type StatePayload struct {
	RoomID             string           `json:"roomId"`
	Players            []*models.Player `json:"players"`
	CurrentPlayerIndex *int             `json:"currentPlayerIndex"`
	ActivePlayer       *models.Player   `json:"activePlayer"`
	CanRoll            *bool            `json:"canRoll"`
	CanMove            *bool            `json:"canMove"`
	CanEndTurn         *bool            `json:"canEndTurn"`
	GameStarted        *bool            `json:"gameStarted"`
	LastDiceResult     json.RawMessage  `json:"lastDiceResult"`
}

type GetGameStateInput struct {
	RoomID string
}

type GetGameStateOutput struct {
	Success bool          `json:"success"`
	State   *StatePayload `json:"state"`
}

type RollDiceInput struct {
	RoomID string

	// DiceChoice is "single" or "double"
	DiceChoice string `json:"diceChoice,omitempty"`

	IsReroll bool `json:"isReroll,omitempty"`
}

type RollDiceOutput struct {
	Success    bool            `json:"success"`
	State      *StatePayload   `json:"state"`
	DiceResult json.RawMessage `json:"diceResult"`

	// TurnTimeRemaining is seconds left on the turn timer, if the
	// server runs one
	TurnTimeRemaining *int `json:"turnTimeRemaining"`
}

type MoveInput struct {
	RoomID string

	Steps   int    `json:"steps"`
	IsInner bool   `json:"isInner"`
	Track   string `json:"track,omitempty"`
}

type MoveResult struct {
	Steps       int `json:"steps"`
	NewPosition int `json:"newPosition"`
}

type MoveOutput struct {
	Success    bool          `json:"success"`
	State      *StatePayload `json:"state"`
	MoveResult *MoveResult   `json:"moveResult"`
}

type EndTurnInput struct {
	RoomID string
}

type EndTurnOutput struct {
	Success           bool          `json:"success"`
	State             *StatePayload `json:"state"`
	TurnTimeRemaining *int          `json:"turnTimeRemaining"`
}
