package game

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/playlexico/backend/internal/config"
	"github.com/playlexico/backend/internal/store"
)

// Outbound real-time event names
const (
	EventStartGame   = "startGame"
	EventPlayGame    = "playGame"
	EventBoardUpdate = "boardUpdate"
	EventEndGame     = "endGame"
)

// Notifier pushes an event to a user's live connection. Delivery is
// best-effort: a user without a connection is dropped silently and a failed
// push never rolls back the state change that produced it.
type Notifier interface {
	Notify(userID int, event string, payload interface{})
}

// Engine is the room/turn state machine. All mutating entry points
// serialize per room through the lock registry.
type Engine struct {
	store    store.Store
	notifier Notifier
	cfg      *config.Config
	locks    *roomLocks
}

func NewEngine(st store.Store, notifier Notifier, cfg *config.Config) *Engine {
	return &Engine{
		store:    st,
		notifier: notifier,
		cfg:      cfg,
		locks:    newRoomLocks(),
	}
}

const roomCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// generateRoomCode produces a fresh join code not used by any existing room.
func (e *Engine) generateRoomCode(ctx context.Context) (string, error) {
	length := e.cfg.RoomCodeLength
	if length <= 0 {
		length = 6
	}

	for {
		code := make([]byte, length)
		for i := range code {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(roomCodeCharset))))
			if err != nil {
				return "", fmt.Errorf("generate room code: %w", err)
			}
			code[i] = roomCodeCharset[n.Int64()]
		}

		exists, err := e.store.RoomCodeExists(ctx, string(code))
		if err != nil {
			return "", err
		}
		if !exists {
			return string(code), nil
		}
	}
}

// notifyPlayers fans an event out to every player in the snapshot.
func (e *Engine) notifyPlayers(snap *RoomSnapshot, event string) {
	for _, p := range snap.Players {
		e.notifier.Notify(p.UserID, event, snap)
	}
}

// notifyPlayGame schedules the delayed playGame push for the promoted seat.
// The timer fires regardless of later state changes; a stale push only
// nudges client UI and mutates nothing.
func (e *Engine) notifyPlayGame(userID int, snap *RoomSnapshot) {
	delay := time.Duration(e.cfg.PlayGameDelayMS) * time.Millisecond
	time.AfterFunc(delay, func() {
		e.notifier.Notify(userID, EventPlayGame, snap)
	})
}
