package store

import (
	"context"
	"time"

	"github.com/playlexico/backend/internal/models"
)

// Store is the persistence boundary for the room engine. Find methods that
// can legitimately miss return (nil, nil); every other error is
// infrastructure failure and must be surfaced to the caller.
type Store interface {
	// Games
	CreateGame(ctx context.Context, createdBy int) (*models.Game, error)
	ActivateGame(ctx context.Context, id int, start, end time.Time) (*models.Game, error)
	ExpireGame(ctx context.Context, id int) error
	FindGameByID(ctx context.Context, id int) (*models.Game, error)

	// Rooms
	CreateRoom(ctx context.Context, gameID int, roomCode, roomType string, entryPoints, createdBy int) (*models.Room, error)
	FindRoomByID(ctx context.Context, id int) (*models.Room, error)
	FindJoinableRoomByCode(ctx context.Context, code string) (*models.Room, error)
	FindOldestOpenPublicRoom(ctx context.Context) (*models.Room, error)
	RoomCodeExists(ctx context.Context, code string) (bool, error)
	SetRoomBoard(ctx context.Context, roomID int, board string) error
	// FillRoom marks the room full and moves it waiting -> active.
	FillRoom(ctx context.Context, roomID int) error
	// ExpireRoomIfActive is the end-of-game check-and-set: it moves the room
	// active -> expired and reports whether this call performed the flip.
	ExpireRoomIfActive(ctx context.Context, roomID int) (bool, error)

	// Players
	CreatePlayer(ctx context.Context, userID, roomID, gameID int) (*models.Player, error)
	FindPlayerByUserRoom(ctx context.Context, userID, roomID int) (*models.Player, error)
	// ListRoomPlayers returns every seat in join order.
	ListRoomPlayers(ctx context.Context, roomID int) ([]models.RoomPlayer, error)
	// ListActiveRoomPlayers returns non-resigned seats in join order.
	ListActiveRoomPlayers(ctx context.Context, roomID int) ([]models.RoomPlayer, error)
	// ListRankedPlayers returns non-resigned seats ordered by score
	// descending, ties broken by seat order.
	ListRankedPlayers(ctx context.Context, roomID int) ([]models.RoomPlayer, error)
	// ListRoomPlayersByScore returns every seat, resigned included, ordered
	// by score descending; used for room reads.
	ListRoomPlayersByScore(ctx context.Context, roomID int) ([]models.RoomPlayer, error)
	CountRoomPlayers(ctx context.Context, roomID int) (int, error)
	// CountActivePlayers counts seats that are neither resigned nor time_up.
	CountActivePlayers(ctx context.Context, roomID int) (int, error)
	SetPlayerStatus(ctx context.Context, playerID int, status string) error
	// ApplyPlayerTurn moves the seat back to waiting with its new cumulative
	// score, recording the remaining-time snapshot when supplied.
	ApplyPlayerTurn(ctx context.Context, playerID, newScore int, remaining *int) error
	MarkPlayerResigned(ctx context.Context, playerID int) error
	SetPlayerPrize(ctx context.Context, playerID, points int) error

	// Score events and points ledger
	CreatePlayerScore(ctx context.Context, s *models.PlayerScore) error
	CreatePointsLog(ctx context.Context, l *models.PointsLog) error
	UserPointsBalance(ctx context.Context, userID int) (int, error)

	// Socket sessions
	UpsertSocketSession(ctx context.Context, userID int, socketID string) error
	DeleteSocketSession(ctx context.Context, userID int, socketID string) error
}
