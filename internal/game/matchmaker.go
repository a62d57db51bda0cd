package game

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/playlexico/backend/internal/models"
)

// JoinRoom seats a user into a room. With a room code it targets that exact
// room; without one it picks the oldest open public room or opens a fresh
// Game+Room pair. Re-joining a room the user is already seated in is a
// resume: current state is re-emitted to their connection.
func (e *Engine) JoinRoom(ctx context.Context, userID int, roomCode string) (*RoomSnapshot, error) {
	// The joinable room can fill between resolution and locking; retry the
	// resolution when that happens.
	for attempt := 0; attempt < 3; attempt++ {
		room, err := e.resolveRoom(ctx, userID, roomCode)
		if err != nil {
			return nil, err
		}

		unlock := e.locks.lock(room.ID)
		snap, retry, err := e.seatPlayer(ctx, userID, room.ID, roomCode)
		unlock()
		if retry {
			continue
		}
		return snap, err
	}
	return nil, ErrJoinContended
}

// resolveRoom finds (or creates) the room a join attempt targets.
func (e *Engine) resolveRoom(ctx context.Context, userID int, roomCode string) (*models.Room, error) {
	if roomCode != "" {
		room, err := e.store.FindJoinableRoomByCode(ctx, roomCode)
		if err != nil {
			return nil, err
		}
		if room == nil {
			return nil, ErrInvalidRoomCode
		}
		return room, nil
	}

	room, err := e.store.FindOldestOpenPublicRoom(ctx)
	if err != nil {
		return nil, err
	}
	if room != nil {
		return room, nil
	}

	g, err := e.store.CreateGame(ctx, userID)
	if err != nil {
		return nil, err
	}
	code, err := e.generateRoomCode(ctx)
	if err != nil {
		return nil, err
	}
	room, err = e.store.CreateRoom(ctx, g.ID, code, models.RoomTypePublic, e.cfg.EntryFee, userID)
	if err != nil {
		return nil, err
	}

	log.Printf("[MATCH] Room %d created (game=%d code=%s) by user %d", room.ID, g.ID, code, userID)
	return room, nil
}

// seatPlayer runs the under-lock part of a join. retry=true means the room
// filled up before the lock was taken and public resolution should rerun.
func (e *Engine) seatPlayer(ctx context.Context, userID, roomID int, roomCode string) (snap *RoomSnapshot, retry bool, err error) {
	room, err := e.store.FindRoomByID(ctx, roomID)
	if err != nil {
		return nil, false, err
	}
	if room == nil {
		return nil, false, ErrRoomNotFound
	}
	if room.IsFull {
		if roomCode != "" {
			return nil, false, ErrInvalidRoomCode
		}
		return nil, true, nil
	}

	existing, err := e.store.FindPlayerByUserRoom(ctx, userID, roomID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return e.resumePlayer(ctx, room, existing)
	}

	player, err := e.store.CreatePlayer(ctx, userID, roomID, room.GameID)
	if err != nil {
		return nil, false, err
	}

	err = e.store.CreatePointsLog(ctx, &models.PointsLog{
		Description: "Join a Game",
		UserID:      userID,
		RoomID:      sql.NullInt64{Int64: int64(roomID), Valid: true},
		Out:         room.EntryPoints,
	})
	if err != nil {
		return nil, false, err
	}

	log.Printf("[MATCH] User %d seated in room %d (player=%d)", userID, roomID, player.ID)

	players, err := e.store.ListRoomPlayers(ctx, roomID)
	if err != nil {
		return nil, false, err
	}

	if len(players) >= e.cfg.SeatCapacity {
		if err := e.startGame(ctx, room, players); err != nil {
			return nil, false, err
		}
	}

	snap, err = e.activeSnapshot(ctx, roomID)
	return snap, false, err
}

// resumePlayer re-emits current room state to a returning player.
func (e *Engine) resumePlayer(ctx context.Context, room *models.Room, player *models.Player) (*RoomSnapshot, bool, error) {
	snap, err := e.activeSnapshot(ctx, room.ID)
	if err != nil {
		return nil, false, err
	}

	log.Printf("[MATCH] User %d resumed room %d", player.UserID, room.ID)
	e.notifier.Notify(player.UserID, EventStartGame, snap)
	if player.Status == models.PlayerStatusPlaying {
		e.notifyPlayGame(player.UserID, snap)
	}
	return snap, false, nil
}

// startGame runs the room-full transition: the room fills and activates, the
// game gets its start/end window, and the first seat takes the opening turn.
func (e *Engine) startGame(ctx context.Context, room *models.Room, players []models.RoomPlayer) error {
	if err := e.store.FillRoom(ctx, room.ID); err != nil {
		return err
	}

	start := time.Now()
	end := start.Add(time.Duration(e.cfg.GameTimeMinutes) * time.Minute)
	if _, err := e.store.ActivateGame(ctx, room.GameID, start, end); err != nil {
		return err
	}

	first := players[0]
	if err := e.store.SetPlayerStatus(ctx, first.ID, models.PlayerStatusPlaying); err != nil {
		return err
	}

	log.Printf("[MATCH] Room %d full, game %d started, player %d opens", room.ID, room.GameID, first.ID)

	snap, err := e.activeSnapshot(ctx, room.ID)
	if err != nil {
		return err
	}
	e.notifyPlayers(snap, EventStartGame)
	e.notifyPlayGame(first.UserID, snap)
	return nil
}
