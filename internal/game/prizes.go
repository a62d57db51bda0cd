package game

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math"

	"github.com/playlexico/backend/internal/models"
)

// prizeShares maps total seated players to the rank-ordered payout shares.
// Shares sum to at most 1.0; the residual stays unallocated.
var prizeShares = map[int][]float64{
	2: {1},
	3: {0.6, 0.4},
	4: {0.5, 0.3, 0.2},
	5: {0.45, 0.25, 0.2, 0.1},
	6: {0.4, 0.25, 0.15, 0.1, 0.1},
	7: {0.4, 0.25, 0.15, 0.1, 0.05, 0.05},
	8: {0.35, 0.25, 0.15, 0.1, 0.05, 0.05, 0.05},
}

// fallbackShares covers seat counts outside the 2-8 table.
var fallbackShares = []float64{0.35, 0.25, 0.15, 0.1, 0.05, 0.05, 0.05}

// sharesFor returns the payout table for a seated-player count.
func sharesFor(totalPlayers int) []float64 {
	if shares, ok := prizeShares[totalPlayers]; ok {
		return shares
	}
	return fallbackShares
}

// endGame closes a room at most once: the active->expired check-and-set on
// the room decides the winner of a race between terminating triggers, the
// loser returns without touching prizes. Must run under the room lock.
func (e *Engine) endGame(ctx context.Context, roomID int) error {
	flipped, err := e.store.ExpireRoomIfActive(ctx, roomID)
	if err != nil {
		return err
	}
	if !flipped {
		return nil
	}

	if err := e.distributePrizes(ctx, roomID); err != nil {
		return err
	}

	room, err := e.store.FindRoomByID(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrRoomNotFound
	}
	if err := e.store.ExpireGame(ctx, room.GameID); err != nil {
		return err
	}

	log.Printf("[PRIZE] Room %d closed (game=%d)", roomID, room.GameID)

	snap, err := e.rankedSnapshot(ctx, roomID)
	if err != nil {
		return err
	}
	e.notifyPlayers(snap, EventEndGame)
	return nil
}

// distributePrizes ranks the remaining players and pays out floor(pool x
// share) per position. The pool is total seats x entry fee, fixed at fill
// time; resigned players are ranked out but their fees stay in the pool.
func (e *Engine) distributePrizes(ctx context.Context, roomID int) error {
	room, err := e.store.FindRoomByID(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrRoomNotFound
	}

	totalPlayers, err := e.store.CountRoomPlayers(ctx, roomID)
	if err != nil {
		return err
	}
	if totalPlayers < 2 {
		log.Printf("[PRIZE] Room %d: not enough players for payout", roomID)
		return nil
	}

	ranked, err := e.store.ListRankedPlayers(ctx, roomID)
	if err != nil {
		return err
	}

	pool := totalPlayers * room.EntryPoints
	shares := sharesFor(totalPlayers)

	for position, player := range ranked {
		if position >= len(shares) {
			break
		}
		points := int(math.Floor(float64(pool) * shares[position]))
		if points <= 0 {
			continue
		}

		if err := e.store.SetPlayerPrize(ctx, player.ID, points); err != nil {
			return err
		}
		err := e.store.CreatePointsLog(ctx, &models.PointsLog{
			Description: fmt.Sprintf("Win a game at position %d", position+1),
			UserID:      player.UserID,
			RoomID:      sql.NullInt64{Int64: int64(roomID), Valid: true},
			In:          points,
		})
		if err != nil {
			return err
		}

		log.Printf("[PRIZE] Room %d: player %d wins %d at position %d", roomID, player.ID, points, position+1)
	}
	return nil
}
