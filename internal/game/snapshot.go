package game

import (
	"context"

	"github.com/playlexico/backend/internal/models"
)

// RoomSnapshot is the state relayed to clients with every event: the room,
// its game, and the seated players with public user fields. Connection
// identifiers are never part of it.
type RoomSnapshot struct {
	Room    *models.Room        `json:"room"`
	Game    *models.Game        `json:"game"`
	Players []models.RoomPlayer `json:"players"`
}

// Snapshot returns the room's current state for read endpoints: every seat,
// resigned included, ordered by score descending.
func (e *Engine) Snapshot(ctx context.Context, roomID int) (*RoomSnapshot, error) {
	return e.snapshot(ctx, roomID, e.store.ListRoomPlayersByScore)
}

// activeSnapshot builds a snapshot with non-resigned players in seat order.
func (e *Engine) activeSnapshot(ctx context.Context, roomID int) (*RoomSnapshot, error) {
	return e.snapshot(ctx, roomID, e.store.ListActiveRoomPlayers)
}

// rankedSnapshot builds a snapshot with non-resigned players ordered by
// score descending; used for the final endGame fan-out.
func (e *Engine) rankedSnapshot(ctx context.Context, roomID int) (*RoomSnapshot, error) {
	return e.snapshot(ctx, roomID, e.store.ListRankedPlayers)
}

func (e *Engine) snapshot(ctx context.Context, roomID int, list func(context.Context, int) ([]models.RoomPlayer, error)) (*RoomSnapshot, error) {
	room, err := e.store.FindRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	g, err := e.store.FindGameByID(ctx, room.GameID)
	if err != nil {
		return nil, err
	}

	players, err := list(ctx, roomID)
	if err != nil {
		return nil, err
	}

	return &RoomSnapshot{Room: room, Game: g, Players: players}, nil
}
