package game

import (
	"context"
	"log"

	"github.com/playlexico/backend/internal/models"
)

// Resign marks the caller's seat resigned with the forfeiture sentinel score
// of -1 and hands the turn on when the resigning player held it. Calling it
// again for an already-resigned player is a no-op.
func (e *Engine) Resign(ctx context.Context, userID, roomID int) error {
	unlock := e.locks.lock(roomID)
	defer unlock()

	player, err := e.store.FindPlayerByUserRoom(ctx, userID, roomID)
	if err != nil {
		return err
	}
	if player == nil {
		return ErrPlayerNotFound
	}
	if player.Status == models.PlayerStatusResigned {
		return nil
	}

	wasPlaying := player.Status == models.PlayerStatusPlaying
	if err := e.store.MarkPlayerResigned(ctx, player.ID); err != nil {
		return err
	}

	log.Printf("[TURN] Room %d: player %d resigned", roomID, player.ID)
	return e.advanceAfterExit(ctx, roomID, player.ID, wasPlaying)
}

// TimeUp marks the caller's seat time_up. With active seats remaining the
// turn is handed on exactly as after a resignation; with none the game ends.
// Idempotent once the seat is already terminal.
func (e *Engine) TimeUp(ctx context.Context, userID, roomID int) error {
	unlock := e.locks.lock(roomID)
	defer unlock()

	player, err := e.store.FindPlayerByUserRoom(ctx, userID, roomID)
	if err != nil {
		return err
	}
	if player == nil {
		return ErrPlayerNotFound
	}
	if player.Status == models.PlayerStatusTimeUp || player.Status == models.PlayerStatusResigned {
		return nil
	}

	wasPlaying := player.Status == models.PlayerStatusPlaying
	if err := e.store.SetPlayerStatus(ctx, player.ID, models.PlayerStatusTimeUp); err != nil {
		return err
	}

	log.Printf("[TURN] Room %d: player %d out of time", roomID, player.ID)

	remaining, err := e.store.CountActivePlayers(ctx, roomID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		return e.endGame(ctx, roomID)
	}
	return e.advanceAfterExit(ctx, roomID, player.ID, wasPlaying)
}

// advanceAfterExit re-runs rotation after a seat left the game mid-round.
// Only meaningful when that seat held the turn; otherwise the current turn
// holder is left undisturbed.
func (e *Engine) advanceAfterExit(ctx context.Context, roomID, playerID int, wasPlaying bool) error {
	players, err := e.store.ListActiveRoomPlayers(ctx, roomID)
	if err != nil {
		return err
	}
	if len(players) <= 1 {
		return e.endGame(ctx, roomID)
	}
	if !wasPlaying {
		return nil
	}

	// A resigned seat is already gone from the list; NextSeat treats the
	// missing index as "scan from the top", which preserves seat order.
	current := -1
	for i, p := range players {
		if p.ID == playerID {
			current = i
			break
		}
	}

	next := NextSeat(current, seatStatuses(players))
	if next == -1 {
		return e.endGame(ctx, roomID)
	}

	if err := e.store.SetPlayerStatus(ctx, players[next].ID, models.PlayerStatusPlaying); err != nil {
		return err
	}

	snap, err := e.activeSnapshot(ctx, roomID)
	if err != nil {
		return err
	}
	e.notifyPlayers(snap, EventBoardUpdate)
	e.notifyPlayGame(players[next].UserID, snap)
	return nil
}
