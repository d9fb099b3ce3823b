package models

import "fmt"

// Player represents a participant in a game session.
//
// Player records arrive from the server in slightly different shapes
// depending on which endpoint produced them, so they are normalized on
// ingest (see NormalizePlayer).
type Player struct {
	// ID is the server-side identifier of the player entry
	ID string `json:"id"`

	// UserID is the account identifier behind the player entry
	UserID string `json:"userId"`

	// Username is the display name of the player
	Username string `json:"username"`

	// Money is the player's current balance
	Money int64 `json:"money"`

	// Position is the player's cell index on the board
	Position int `json:"position"`

	// IsInner reports whether the player is on the inner track
	IsInner bool `json:"isInner"`

	// Token is the board token chosen by the player
	Token string `json:"token"`

	// IsReady reports whether the player confirmed readiness
	IsReady bool `json:"isReady"`
}

// NormalizePlayer fills the gaps server payloads leave in a player
// record. A record without any resolvable id is unusable and is
// dropped; UserID defaults to ID and Username to a generated
// placeholder based on the roster slot.
func NormalizePlayer(p *Player, slot int) (*Player, bool) {
	if p == nil {
		return nil, false
	}

	out := *p

	if out.ID == "" {
		out.ID = out.UserID
	}
	if out.ID == "" {
		// No id at all, drop the record.
		return nil, false
	}

	if out.UserID == "" {
		out.UserID = out.ID
	}

	if out.Username == "" {
		out.Username = fmt.Sprintf("player%d", slot+1)
	}

	return &out, true
}

// SamePlayer reports whether two records refer to the same player,
// comparing userId first, then id, then username.
func SamePlayer(a, b *Player) bool {
	if a == nil || b == nil {
		return false
	}
	if a.UserID != "" && b.UserID != "" {
		return a.UserID == b.UserID
	}
	if a.ID != "" && b.ID != "" {
		return a.ID == b.ID
	}
	return a.Username != "" && a.Username == b.Username
}
