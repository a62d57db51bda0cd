package game

import "errors"

var (
	// ErrInvalidRoomCode means the supplied code does not resolve to a
	// joinable room (absent or already full).
	ErrInvalidRoomCode = errors.New("invalid room code or room is full")

	// ErrJoinContended means every open room a code-less join resolved kept
	// filling before the caller could be seated. The join can be retried.
	ErrJoinContended = errors.New("open rooms filled during join, try again")

	// ErrNotYourTurn means the caller does not hold the playing seat.
	ErrNotYourTurn = errors.New("not your turn")

	// ErrPlayerNotFound means the caller has no seat in the room.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrRoomNotFound means the room is absent, deleted or not active.
	ErrRoomNotFound = errors.New("room not found")

	// ErrGameEnded is the terminal outcome of a turn that left no next
	// player. It is informational, not a failure to retry.
	ErrGameEnded = errors.New("game ended")
)
