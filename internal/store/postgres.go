package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/playlexico/backend/internal/models"
)

// PostgresStore implements Store on top of sqlx/PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const roomColumns = `id, game_id, room_code, is_full, type, status, entry_points, board, created_by, is_deleted, created_at, updated_at`

const playerJoinColumns = `p.id, p.user_id, p.room_id, p.game_id, p.status, p.score, p.game_points, p.remaining_time, p.joined_at,
	u.id AS "user.id", u.name AS "user.name", u.email AS "user.email", u.image AS "user.image"`

// Games

func (s *PostgresStore) CreateGame(ctx context.Context, createdBy int) (*models.Game, error) {
	var g models.Game
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO games (status, created_by, created_at, updated_at) VALUES ('waiting', $1, NOW(), NOW())
		 RETURNING id, status, start_time, end_time, created_by, is_deleted, created_at, updated_at`,
		createdBy).StructScan(&g)
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	return &g, nil
}

func (s *PostgresStore) ActivateGame(ctx context.Context, id int, start, end time.Time) (*models.Game, error) {
	var g models.Game
	err := s.db.QueryRowxContext(ctx,
		`UPDATE games SET status='active', start_time=$2, end_time=$3, updated_at=NOW() WHERE id=$1
		 RETURNING id, status, start_time, end_time, created_by, is_deleted, created_at, updated_at`,
		id, start, end).StructScan(&g)
	if err != nil {
		return nil, fmt.Errorf("activate game %d: %w", id, err)
	}
	return &g, nil
}

func (s *PostgresStore) ExpireGame(ctx context.Context, id int) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE games SET status='expired', updated_at=NOW() WHERE id=$1`, id); err != nil {
		return fmt.Errorf("expire game %d: %w", id, err)
	}
	return nil
}

func (s *PostgresStore) FindGameByID(ctx context.Context, id int) (*models.Game, error) {
	var g models.Game
	err := s.db.GetContext(ctx, &g,
		`SELECT id, status, start_time, end_time, created_by, is_deleted, created_at, updated_at
		 FROM games WHERE id=$1 AND is_deleted=FALSE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find game %d: %w", id, err)
	}
	return &g, nil
}

// Rooms

func (s *PostgresStore) CreateRoom(ctx context.Context, gameID int, roomCode, roomType string, entryPoints, createdBy int) (*models.Room, error) {
	var r models.Room
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO rooms (game_id, room_code, is_full, type, status, entry_points, created_by, created_at, updated_at)
		 VALUES ($1, $2, FALSE, $3, 'waiting', $4, $5, NOW(), NOW())
		 RETURNING `+roomColumns,
		gameID, roomCode, roomType, entryPoints, createdBy).StructScan(&r)
	if err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	return &r, nil
}

func (s *PostgresStore) FindRoomByID(ctx context.Context, id int) (*models.Room, error) {
	var r models.Room
	err := s.db.GetContext(ctx, &r,
		`SELECT `+roomColumns+` FROM rooms WHERE id=$1 AND is_deleted=FALSE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find room %d: %w", id, err)
	}
	return &r, nil
}

func (s *PostgresStore) FindJoinableRoomByCode(ctx context.Context, code string) (*models.Room, error) {
	var r models.Room
	err := s.db.GetContext(ctx, &r,
		`SELECT `+roomColumns+` FROM rooms
		 WHERE room_code=$1 AND is_full=FALSE AND is_deleted=FALSE`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find room by code: %w", err)
	}
	return &r, nil
}

func (s *PostgresStore) FindOldestOpenPublicRoom(ctx context.Context) (*models.Room, error) {
	var r models.Room
	err := s.db.GetContext(ctx, &r,
		`SELECT `+roomColumns+` FROM rooms
		 WHERE is_full=FALSE AND type='public' AND is_deleted=FALSE
		 ORDER BY created_at ASC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find open public room: %w", err)
	}
	return &r, nil
}

func (s *PostgresStore) RoomCodeExists(ctx context.Context, code string) (bool, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM rooms WHERE room_code=$1`, code); err != nil {
		return false, fmt.Errorf("check room code: %w", err)
	}
	return count > 0, nil
}

func (s *PostgresStore) SetRoomBoard(ctx context.Context, roomID int, board string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE rooms SET board=$2, updated_at=NOW() WHERE id=$1`, roomID, board); err != nil {
		return fmt.Errorf("set board for room %d: %w", roomID, err)
	}
	return nil
}

func (s *PostgresStore) FillRoom(ctx context.Context, roomID int) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE rooms SET is_full=TRUE, status='active', updated_at=NOW() WHERE id=$1`, roomID); err != nil {
		return fmt.Errorf("fill room %d: %w", roomID, err)
	}
	return nil
}

func (s *PostgresStore) ExpireRoomIfActive(ctx context.Context, roomID int) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE rooms SET status='expired', updated_at=NOW() WHERE id=$1 AND status='active'`, roomID)
	if err != nil {
		return false, fmt.Errorf("expire room %d: %w", roomID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("expire room %d: %w", roomID, err)
	}
	return n == 1, nil
}

// Players

func (s *PostgresStore) CreatePlayer(ctx context.Context, userID, roomID, gameID int) (*models.Player, error) {
	var p models.Player
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO players (user_id, room_id, game_id, status, score, game_points, joined_at)
		 VALUES ($1, $2, $3, 'waiting', 0, 0, NOW())
		 RETURNING id, user_id, room_id, game_id, status, score, game_points, remaining_time, joined_at`,
		userID, roomID, gameID).StructScan(&p)
	if err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) FindPlayerByUserRoom(ctx context.Context, userID, roomID int) (*models.Player, error) {
	var p models.Player
	err := s.db.GetContext(ctx, &p,
		`SELECT id, user_id, room_id, game_id, status, score, game_points, remaining_time, joined_at
		 FROM players WHERE user_id=$1 AND room_id=$2`, userID, roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find player user=%d room=%d: %w", userID, roomID, err)
	}
	return &p, nil
}

func (s *PostgresStore) listPlayers(ctx context.Context, roomID int, where, order string) ([]models.RoomPlayer, error) {
	var players []models.RoomPlayer
	query := `SELECT ` + playerJoinColumns + `
		FROM players p JOIN users u ON u.id = p.user_id
		WHERE p.room_id=$1` + where + ` ORDER BY ` + order
	if err := s.db.SelectContext(ctx, &players, query, roomID); err != nil {
		return nil, fmt.Errorf("list players for room %d: %w", roomID, err)
	}
	return players, nil
}

func (s *PostgresStore) ListRoomPlayers(ctx context.Context, roomID int) ([]models.RoomPlayer, error) {
	return s.listPlayers(ctx, roomID, ``, `p.id ASC`)
}

func (s *PostgresStore) ListActiveRoomPlayers(ctx context.Context, roomID int) ([]models.RoomPlayer, error) {
	return s.listPlayers(ctx, roomID, ` AND p.status <> 'resigned'`, `p.id ASC`)
}

func (s *PostgresStore) ListRankedPlayers(ctx context.Context, roomID int) ([]models.RoomPlayer, error) {
	return s.listPlayers(ctx, roomID, ` AND p.status <> 'resigned'`, `p.score DESC, p.id ASC`)
}

func (s *PostgresStore) ListRoomPlayersByScore(ctx context.Context, roomID int) ([]models.RoomPlayer, error) {
	return s.listPlayers(ctx, roomID, ``, `p.score DESC, p.id ASC`)
}

func (s *PostgresStore) CountRoomPlayers(ctx context.Context, roomID int) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM players WHERE room_id=$1`, roomID); err != nil {
		return 0, fmt.Errorf("count players for room %d: %w", roomID, err)
	}
	return count, nil
}

func (s *PostgresStore) CountActivePlayers(ctx context.Context, roomID int) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM players WHERE room_id=$1 AND status NOT IN ('resigned', 'time_up')`, roomID); err != nil {
		return 0, fmt.Errorf("count active players for room %d: %w", roomID, err)
	}
	return count, nil
}

func (s *PostgresStore) SetPlayerStatus(ctx context.Context, playerID int, status string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE players SET status=$2 WHERE id=$1`, playerID, status); err != nil {
		return fmt.Errorf("set player %d status: %w", playerID, err)
	}
	return nil
}

func (s *PostgresStore) ApplyPlayerTurn(ctx context.Context, playerID, newScore int, remaining *int) error {
	var err error
	if remaining != nil {
		_, err = s.db.ExecContext(ctx,
			`UPDATE players SET status='waiting', score=$2, remaining_time=$3 WHERE id=$1`,
			playerID, newScore, *remaining)
	} else {
		_, err = s.db.ExecContext(ctx,
			`UPDATE players SET status='waiting', score=$2 WHERE id=$1`, playerID, newScore)
	}
	if err != nil {
		return fmt.Errorf("apply turn for player %d: %w", playerID, err)
	}
	return nil
}

func (s *PostgresStore) MarkPlayerResigned(ctx context.Context, playerID int) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE players SET status='resigned', score=-1 WHERE id=$1`, playerID); err != nil {
		return fmt.Errorf("mark player %d resigned: %w", playerID, err)
	}
	return nil
}

func (s *PostgresStore) SetPlayerPrize(ctx context.Context, playerID, points int) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE players SET game_points=$2 WHERE id=$1`, playerID, points); err != nil {
		return fmt.Errorf("set prize for player %d: %w", playerID, err)
	}
	return nil
}

// Score events and points ledger

func (s *PostgresStore) CreatePlayerScore(ctx context.Context, sc *models.PlayerScore) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO player_scores (player_id, user_id, room_id, game_id, found_word, score, turn_time, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`,
		sc.PlayerID, sc.UserID, sc.RoomID, sc.GameID, sc.FoundWord, sc.Score, sc.TurnTime)
	if err != nil {
		return fmt.Errorf("create player score: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreatePointsLog(ctx context.Context, l *models.PointsLog) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO points_log (description, user_id, room_id, inn, out, created_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())`,
		l.Description, l.UserID, l.RoomID, l.In, l.Out)
	if err != nil {
		return fmt.Errorf("create points log: %w", err)
	}
	return nil
}

func (s *PostgresStore) UserPointsBalance(ctx context.Context, userID int) (int, error) {
	var balance int
	err := s.db.GetContext(ctx, &balance,
		`SELECT COALESCE(SUM(inn), 0) - COALESCE(SUM(out), 0) FROM points_log WHERE user_id=$1`, userID)
	if err != nil {
		return 0, fmt.Errorf("points balance for user %d: %w", userID, err)
	}
	return balance, nil
}

// Socket sessions

func (s *PostgresStore) UpsertSocketSession(ctx context.Context, userID int, socketID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sockets (user_id, socket_id, created_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET socket_id=EXCLUDED.socket_id, created_at=NOW()`,
		userID, socketID)
	if err != nil {
		return fmt.Errorf("upsert socket session for user %d: %w", userID, err)
	}
	return nil
}

func (s *PostgresStore) DeleteSocketSession(ctx context.Context, userID int, socketID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM sockets WHERE user_id=$1 AND socket_id=$2`, userID, socketID)
	if err != nil {
		return fmt.Errorf("delete socket session for user %d: %w", userID, err)
	}
	return nil
}
