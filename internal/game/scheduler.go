package game

import (
	"context"
	"database/sql"
	"log"

	"github.com/playlexico/backend/internal/models"
)

// TurnInput carries a completed turn. Board is an opaque client payload and
// is stored verbatim when non-empty. RemainingTime, when set, snapshots the
// player's clock in seconds.
type TurnInput struct {
	Score         int
	Word          string
	RemainingTime *int
	Board         string
}

// ApplyTurn applies the caller's completed turn: scores it, records the
// score event, and rotates the playing seat. Returns ErrGameEnded when the
// rotation finds no next player; that is the normal terminal outcome, after
// prizes have been distributed.
func (e *Engine) ApplyTurn(ctx context.Context, userID, roomID int, in TurnInput) error {
	unlock := e.locks.lock(roomID)
	defer unlock()

	room, err := e.store.FindRoomByID(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil || room.Status != models.RoomStatusActive {
		return ErrRoomNotFound
	}

	players, err := e.store.ListActiveRoomPlayers(ctx, roomID)
	if err != nil {
		return err
	}
	if len(players) == 0 {
		return ErrPlayerNotFound
	}

	current := -1
	for i, p := range players {
		if p.UserID == userID && p.Status == models.PlayerStatusPlaying {
			current = i
			break
		}
	}
	if current == -1 {
		return ErrNotYourTurn
	}

	if in.Board != "" {
		if err := e.store.SetRoomBoard(ctx, roomID, in.Board); err != nil {
			return err
		}
	}

	actor := players[current]
	if err := e.store.ApplyPlayerTurn(ctx, actor.ID, actor.Score+in.Score, in.RemainingTime); err != nil {
		return err
	}

	if in.Score > 0 {
		sc := &models.PlayerScore{
			PlayerID:  actor.ID,
			UserID:    userID,
			RoomID:    actor.RoomID,
			GameID:    actor.GameID,
			FoundWord: in.Word,
			Score:     in.Score,
		}
		if in.RemainingTime != nil {
			sc.TurnTime = sql.NullInt64{Int64: int64(*in.RemainingTime), Valid: true}
		}
		if err := e.store.CreatePlayerScore(ctx, sc); err != nil {
			return err
		}
	}

	log.Printf("[TURN] Room %d: player %d scored %d (%q)", roomID, actor.ID, in.Score, in.Word)

	next := NextSeat(current, seatStatuses(players))
	if next == -1 {
		if err := e.endGame(ctx, roomID); err != nil {
			return err
		}
		return ErrGameEnded
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

// NextSeat resolves the next playing seat: a circular scan starting at the
// seat after current, selecting the first seat whose status is waiting.
// Returns -1 when no waiting seat exists; time_up seats have forfeited their
// remaining turns and never re-enter rotation. The scan is a total,
// deterministic function of (current, statuses). current == -1 means the
// acting seat is gone from the slice and the scan starts at seat 0.
func NextSeat(current int, statuses []string) int {
	n := len(statuses)
	if n == 0 {
		return -1
	}
	for i := 1; i <= n; i++ {
		idx := (current + i + n) % n
		if statuses[idx] == models.PlayerStatusWaiting {
			return idx
		}
	}
	return -1
}

func seatStatuses(players []models.RoomPlayer) []string {
	statuses := make([]string, len(players))
	for i, p := range players {
		statuses[i] = p.Status
	}
	return statuses
}
