package models

import (
	"database/sql"
	"time"
)

// Room lifecycle and visibility values
const (
	RoomStatusWaiting = "waiting"
	RoomStatusActive  = "active"
	RoomStatusExpired = "expired"

	RoomTypePublic   = "public"
	RoomTypeCodeOnly = "code_only"
)

// Game lifecycle values
const (
	GameStatusWaiting = "waiting"
	GameStatusActive  = "active"
	GameStatusExpired = "expired"
)

// Player turn status values
const (
	PlayerStatusWaiting  = "waiting"
	PlayerStatusPlaying  = "playing"
	PlayerStatusResigned = "resigned"
	PlayerStatusTimeUp   = "time_up"
)

// User is the public slice of an account visible to other players
type User struct {
	ID    int            `db:"id" json:"id"`
	Name  string         `db:"name" json:"name"`
	Email string         `db:"email" json:"email"`
	Image sql.NullString `db:"image" json:"image,omitempty"`
}

// Room represents a joinable game room
type Room struct {
	ID          int            `db:"id" json:"id"`
	GameID      int            `db:"game_id" json:"game_id"`
	RoomCode    string         `db:"room_code" json:"room_code"`
	IsFull      bool           `db:"is_full" json:"is_full"`
	Type        string         `db:"type" json:"type"`
	Status      string         `db:"status" json:"status"`
	EntryPoints int            `db:"entry_points" json:"entry_points"`
	Board       sql.NullString `db:"board" json:"board,omitempty"`
	CreatedBy   int            `db:"created_by" json:"created_by"`
	IsDeleted   bool           `db:"is_deleted" json:"is_deleted"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// Game represents one round played in a room
type Game struct {
	ID        int          `db:"id" json:"id"`
	Status    string       `db:"status" json:"status"`
	StartTime sql.NullTime `db:"start_time" json:"start_time,omitempty"`
	EndTime   sql.NullTime `db:"end_time" json:"end_time,omitempty"`
	CreatedBy int          `db:"created_by" json:"created_by"`
	IsDeleted bool         `db:"is_deleted" json:"is_deleted"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}

// Player is a user's seat in a room. Seat order is join order (id ascending)
// and is never reshuffled.
type Player struct {
	ID            int           `db:"id" json:"id"`
	UserID        int           `db:"user_id" json:"user_id"`
	RoomID        int           `db:"room_id" json:"room_id"`
	GameID        int           `db:"game_id" json:"game_id"`
	Status        string        `db:"status" json:"status"`
	Score         int           `db:"score" json:"score"`
	GamePoints    int           `db:"game_points" json:"game_points"`
	RemainingTime sql.NullInt64 `db:"remaining_time" json:"remaining_time,omitempty"`
	JoinedAt      time.Time     `db:"joined_at" json:"joined_at"`
}

// RoomPlayer is a Player joined with the public user fields
type RoomPlayer struct {
	Player
	User User `json:"user"`
}

// PlayerScore is an append-only record of one accepted turn
type PlayerScore struct {
	ID        int           `db:"id" json:"id"`
	PlayerID  int           `db:"player_id" json:"player_id"`
	UserID    int           `db:"user_id" json:"user_id"`
	RoomID    int           `db:"room_id" json:"room_id"`
	GameID    int           `db:"game_id" json:"game_id"`
	FoundWord string        `db:"found_word" json:"found_word"`
	Score     int           `db:"score" json:"score"`
	TurnTime  sql.NullInt64 `db:"turn_time" json:"turn_time,omitempty"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

// PointsLog is an append-only ledger entry. A user's balance is
// sum(in) - sum(out) over their entries.
type PointsLog struct {
	ID          int           `db:"id" json:"id"`
	Description string        `db:"description" json:"description"`
	UserID      int           `db:"user_id" json:"user_id"`
	RoomID      sql.NullInt64 `db:"room_id" json:"room_id,omitempty"`
	In          int           `db:"inn" json:"in"`
	Out         int           `db:"out" json:"out"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
}

// SocketSession maps a user to their single live connection
type SocketSession struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	SocketID  string    `db:"socket_id" json:"socket_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
