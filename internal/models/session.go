package models

import "time"

// SessionState is the client's view of a game session. It is the only
// shared mutable state in the client; the state store commits whole
// snapshots and hands out deep copies, so a SessionState held by a
// caller is never aliased with the store's own copy.
type SessionState struct {
	// RoomID is the room the session belongs to
	RoomID string `json:"roomId"`

	// Players is the normalized roster, in server order
	Players []*Player `json:"players"`

	// CurrentPlayerIndex is the roster index of the player whose turn
	// it is, always within [0, len(Players)) while the roster is
	// non-empty
	CurrentPlayerIndex int `json:"currentPlayerIndex"`

	// ActivePlayer is the resolved active player, matching a roster
	// entry by id whenever one exists
	ActivePlayer *Player `json:"activePlayer"`

	// CanRoll, CanMove and CanEndTurn are the server's permission
	// flags. A nil flag means the server has not said either way.
	CanRoll    *bool `json:"canRoll"`
	CanMove    *bool `json:"canMove"`
	CanEndTurn *bool `json:"canEndTurn"`

	// GameStarted reports whether the game is underway
	GameStarted bool `json:"gameStarted"`

	// LastDiceResult is the most recent roll, if any
	LastDiceResult *DiceResult `json:"lastDiceResult"`

	// UpdatedAt is when this snapshot was committed, non-decreasing
	// across commits
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSessionState returns an empty session snapshot.
func NewSessionState() *SessionState {
	return &SessionState{
		Players: []*Player{},
	}
}

// Clone returns a deep copy of the snapshot.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}

	out := *s

	out.Players = make([]*Player, 0, len(s.Players))
	for _, p := range s.Players {
		cp := *p
		out.Players = append(out.Players, &cp)
	}

	if s.ActivePlayer != nil {
		cp := *s.ActivePlayer
		out.ActivePlayer = &cp
	}

	out.CanRoll = cloneBool(s.CanRoll)
	out.CanMove = cloneBool(s.CanMove)
	out.CanEndTurn = cloneBool(s.CanEndTurn)

	if s.LastDiceResult != nil {
		out.LastDiceResult = s.LastDiceResult.Clone()
	}

	return &out
}

// PlayerByID returns the roster entry with the given id, or nil.
func (s *SessionState) PlayerByID(id string) *Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

// Bool is a convenience for building permission flag pointers.
func Bool(v bool) *bool {
	return &v
}
