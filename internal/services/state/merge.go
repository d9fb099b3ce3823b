package state

import (
	"github.com/auramoney/gameclient/internal/gateway"
	"github.com/auramoney/gameclient/internal/models"
)

// changeSet records which parts of the session a merge actually moved.
// A merge with no recorded change never commits.
type changeSet struct {
	playersChanged bool
	indexChanged   bool
	turnChanged    bool
	flagsChanged   bool
	startedChanged bool
	diceChanged    bool
	roomChanged    bool
}

func (c *changeSet) any() bool {
	return c.playersChanged || c.indexChanged || c.turnChanged ||
		c.flagsChanged || c.startedChanged || c.diceChanged || c.roomChanged
}

// mergePayload folds a server payload into a copy of the previous
// snapshot. Absent payload fields leave the previous value in place.
func mergePayload(prev *models.SessionState, payload *gateway.StatePayload) (*models.SessionState, *changeSet) {
	next := prev.Clone()
	ch := &changeSet{}

	if payload.RoomID != "" && payload.RoomID != next.RoomID {
		next.RoomID = payload.RoomID
		ch.roomChanged = true
	}

	if payload.Players != nil {
		mergePlayers(prev, next, payload.Players, ch)
	}

	if payload.CurrentPlayerIndex != nil {
		idx := *payload.CurrentPlayerIndex
		if len(next.Players) > 0 {
			// Servers occasionally report an index past the roster end;
			// wrap it rather than leave the turn pointing at nobody.
			idx = ((idx % len(next.Players)) + len(next.Players)) % len(next.Players)
		} else if idx < 0 {
			idx = 0
		}
		if idx != next.CurrentPlayerIndex {
			next.CurrentPlayerIndex = idx
			ch.indexChanged = true
		}
	}

	mergeActivePlayer(prev, next, payload, ch)

	mergeFlag(&next.CanRoll, payload.CanRoll, ch)
	mergeFlag(&next.CanMove, payload.CanMove, ch)
	mergeFlag(&next.CanEndTurn, payload.CanEndTurn, ch)

	if payload.GameStarted != nil && *payload.GameStarted != next.GameStarted {
		next.GameStarted = *payload.GameStarted
		ch.startedChanged = true
	}

	if dice := models.ParseDiceResult(payload.LastDiceResult); dice != nil {
		if !sameDice(next.LastDiceResult, dice) {
			next.LastDiceResult = dice
			ch.diceChanged = true
		}
	}

	return next, ch
}

// mergePlayers replaces the roster with the server's, normalizing each
// record and dropping the unresolvable ones. Change detection compares
// the reduced projection (id, username, money, position, readiness) so
// cosmetic payload differences do not trigger commits.
func mergePlayers(prev, next *models.SessionState, incoming []*models.Player, ch *changeSet) {
	roster := make([]*models.Player, 0, len(incoming))
	for i, p := range incoming {
		normalized, ok := models.NormalizePlayer(p, i)
		if !ok {
			continue
		}
		roster = append(roster, normalized)
	}

	if len(roster) != len(prev.Players) {
		ch.playersChanged = true
	} else {
		for i, p := range roster {
			old := prev.Players[i]
			if p.ID != old.ID || p.Username != old.Username ||
				p.Money != old.Money || p.Position != old.Position ||
				p.IsReady != old.IsReady {
				ch.playersChanged = true
				break
			}
		}
	}

	next.Players = roster

	if len(next.Players) > 0 && next.CurrentPlayerIndex >= len(next.Players) {
		next.CurrentPlayerIndex = 0
		ch.indexChanged = true
	}
}

// mergeActivePlayer resolves the active player with decreasing
// authority: the payload's explicit activePlayer, then the turn index,
// then the first roster entry when nothing else resolves one.
func mergeActivePlayer(prev, next *models.SessionState, payload *gateway.StatePayload, ch *changeSet) {
	var resolved *models.Player

	if payload.ActivePlayer != nil {
		if normalized, ok := models.NormalizePlayer(payload.ActivePlayer, 0); ok {
			// Prefer the roster's copy of the same player so the active
			// pointer carries the merged money/position values.
			if entry := next.PlayerByID(normalized.ID); entry != nil {
				resolved = entry
			} else {
				resolved = normalized
			}
		}
	}

	if resolved == nil && payload.CurrentPlayerIndex != nil &&
		next.CurrentPlayerIndex < len(next.Players) && len(next.Players) > 0 {
		resolved = next.Players[next.CurrentPlayerIndex]
	}

	if resolved != nil {
		cp := *resolved
		next.ActivePlayer = &cp
	}

	if next.ActivePlayer == nil && len(next.Players) > 0 {
		cp := *next.Players[0]
		next.ActivePlayer = &cp
		next.CurrentPlayerIndex = 0
	}

	prevID := ""
	if prev.ActivePlayer != nil {
		prevID = prev.ActivePlayer.ID
	}
	nextID := ""
	if next.ActivePlayer != nil {
		nextID = next.ActivePlayer.ID
	}
	if prevID != nextID {
		ch.turnChanged = true
	}
}

func mergeFlag(dst **bool, src *bool, ch *changeSet) {
	if src == nil {
		return
	}
	if *dst == nil || **dst != *src {
		v := *src
		*dst = &v
		ch.flagsChanged = true
	}
}

func sameDice(a, b *models.DiceResult) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Total != b.Total || len(a.Values) != len(b.Values) {
		return false
	}
	for i := range a.Values {
		if a.Values[i] != b.Values[i] {
			return false
		}
	}
	return true
}
