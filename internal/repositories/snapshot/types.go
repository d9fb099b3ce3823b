package snapshot

import "github.com/auramoney/gameclient/internal/models"

type SaveSnapshotInput struct {
	RoomID string
	State  *models.SessionState
}

type GetSnapshotInput struct {
	RoomID string
}

type DeleteSnapshotInput struct {
	RoomID string
}
