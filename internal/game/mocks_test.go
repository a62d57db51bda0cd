package game

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/playlexico/backend/internal/config"
	"github.com/playlexico/backend/internal/models"
)

// memStore is an in-memory Store for engine tests.
type memStore struct {
	mu      sync.Mutex
	games   map[int]*models.Game
	rooms   map[int]*models.Room
	players map[int]*models.Player
	scores  []*models.PlayerScore
	ledger  []*models.PointsLog
	sockets map[int]string
	nextID  int
}

func newMemStore() *memStore {
	return &memStore{
		games:   make(map[int]*models.Game),
		rooms:   make(map[int]*models.Room),
		players: make(map[int]*models.Player),
		sockets: make(map[int]string),
	}
}

func (m *memStore) id() int {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateGame(_ context.Context, createdBy int) (*models.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g := &models.Game{ID: m.id(), Status: models.GameStatusWaiting, CreatedBy: createdBy, CreatedAt: time.Now()}
	m.games[g.ID] = g
	out := *g
	return &out, nil
}

func (m *memStore) ActivateGame(_ context.Context, id int, start, end time.Time) (*models.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return nil, fmt.Errorf("game %d not found", id)
	}
	g.Status = models.GameStatusActive
	g.StartTime = sql.NullTime{Time: start, Valid: true}
	g.EndTime = sql.NullTime{Time: end, Valid: true}
	out := *g
	return &out, nil
}

func (m *memStore) ExpireGame(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.games[id]; ok {
		g.Status = models.GameStatusExpired
	}
	return nil
}

func (m *memStore) FindGameByID(_ context.Context, id int) (*models.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return nil, nil
	}
	out := *g
	return &out, nil
}

func (m *memStore) CreateRoom(_ context.Context, gameID int, roomCode, roomType string, entryPoints, createdBy int) (*models.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := &models.Room{
		ID:          m.id(),
		GameID:      gameID,
		RoomCode:    roomCode,
		Type:        roomType,
		Status:      models.RoomStatusWaiting,
		EntryPoints: entryPoints,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now(),
	}
	m.rooms[r.ID] = r
	out := *r
	return &out, nil
}

func (m *memStore) FindRoomByID(_ context.Context, id int) (*models.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok || r.IsDeleted {
		return nil, nil
	}
	out := *r
	return &out, nil
}

func (m *memStore) FindJoinableRoomByCode(_ context.Context, code string) (*models.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rooms {
		if r.RoomCode == code && !r.IsFull && !r.IsDeleted {
			out := *r
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindOldestOpenPublicRoom(_ context.Context) (*models.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var oldest *models.Room
	for _, r := range m.rooms {
		if r.IsFull || r.IsDeleted || r.Type != models.RoomTypePublic {
			continue
		}
		if oldest == nil || r.ID < oldest.ID {
			oldest = r
		}
	}
	if oldest == nil {
		return nil, nil
	}
	out := *oldest
	return &out, nil
}

func (m *memStore) RoomCodeExists(_ context.Context, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rooms {
		if r.RoomCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) SetRoomBoard(_ context.Context, roomID int, board string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rooms[roomID]; ok {
		r.Board = sql.NullString{String: board, Valid: true}
	}
	return nil
}

func (m *memStore) FillRoom(_ context.Context, roomID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rooms[roomID]; ok {
		r.IsFull = true
		r.Status = models.RoomStatusActive
	}
	return nil
}

func (m *memStore) ExpireRoomIfActive(_ context.Context, roomID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[roomID]
	if !ok || r.Status != models.RoomStatusActive {
		return false, nil
	}
	r.Status = models.RoomStatusExpired
	return true, nil
}

func (m *memStore) CreatePlayer(_ context.Context, userID, roomID, gameID int) (*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &models.Player{
		ID:       m.id(),
		UserID:   userID,
		RoomID:   roomID,
		GameID:   gameID,
		Status:   models.PlayerStatusWaiting,
		JoinedAt: time.Now(),
	}
	m.players[p.ID] = p
	out := *p
	return &out, nil
}

func (m *memStore) FindPlayerByUserRoom(_ context.Context, userID, roomID int) (*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.players {
		if p.UserID == userID && p.RoomID == roomID {
			out := *p
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memStore) roomPlayers(roomID int, includeResigned bool) []models.RoomPlayer {
	var players []models.RoomPlayer
	for _, p := range m.players {
		if p.RoomID != roomID {
			continue
		}
		if !includeResigned && p.Status == models.PlayerStatusResigned {
			continue
		}
		players = append(players, models.RoomPlayer{
			Player: *p,
			User:   models.User{ID: p.UserID, Name: fmt.Sprintf("user%d", p.UserID)},
		})
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players
}

func (m *memStore) ListRoomPlayers(_ context.Context, roomID int) ([]models.RoomPlayer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roomPlayers(roomID, true), nil
}

func (m *memStore) ListActiveRoomPlayers(_ context.Context, roomID int) ([]models.RoomPlayer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roomPlayers(roomID, false), nil
}

func (m *memStore) ListRankedPlayers(_ context.Context, roomID int) ([]models.RoomPlayer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	players := m.roomPlayers(roomID, false)
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].Score != players[j].Score {
			return players[i].Score > players[j].Score
		}
		return players[i].ID < players[j].ID
	})
	return players, nil
}

func (m *memStore) ListRoomPlayersByScore(_ context.Context, roomID int) ([]models.RoomPlayer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	players := m.roomPlayers(roomID, true)
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].Score != players[j].Score {
			return players[i].Score > players[j].Score
		}
		return players[i].ID < players[j].ID
	})
	return players, nil
}

func (m *memStore) CountRoomPlayers(_ context.Context, roomID int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.roomPlayers(roomID, true)), nil
}

func (m *memStore) CountActivePlayers(_ context.Context, roomID int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, p := range m.players {
		if p.RoomID == roomID && p.Status != models.PlayerStatusResigned && p.Status != models.PlayerStatusTimeUp {
			count++
		}
	}
	return count, nil
}

func (m *memStore) SetPlayerStatus(_ context.Context, playerID int, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.players[playerID]; ok {
		p.Status = status
	}
	return nil
}

func (m *memStore) ApplyPlayerTurn(_ context.Context, playerID, newScore int, remaining *int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[playerID]
	if !ok {
		return fmt.Errorf("player %d not found", playerID)
	}
	p.Status = models.PlayerStatusWaiting
	p.Score = newScore
	if remaining != nil {
		p.RemainingTime = sql.NullInt64{Int64: int64(*remaining), Valid: true}
	}
	return nil
}

func (m *memStore) MarkPlayerResigned(_ context.Context, playerID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.players[playerID]; ok {
		p.Status = models.PlayerStatusResigned
		p.Score = -1
	}
	return nil
}

func (m *memStore) SetPlayerPrize(_ context.Context, playerID, points int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.players[playerID]; ok {
		p.GamePoints = points
	}
	return nil
}

func (m *memStore) CreatePlayerScore(_ context.Context, s *models.PlayerScore) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	cp.ID = m.id()
	m.scores = append(m.scores, &cp)
	return nil
}

func (m *memStore) CreatePointsLog(_ context.Context, l *models.PointsLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *l
	cp.ID = m.id()
	m.ledger = append(m.ledger, &cp)
	return nil
}

func (m *memStore) UserPointsBalance(_ context.Context, userID int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	balance := 0
	for _, l := range m.ledger {
		if l.UserID == userID {
			balance += l.In - l.Out
		}
	}
	return balance, nil
}

func (m *memStore) UpsertSocketSession(_ context.Context, userID int, socketID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sockets[userID] = socketID
	return nil
}

func (m *memStore) DeleteSocketSession(_ context.Context, userID int, socketID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sockets[userID] == socketID {
		delete(m.sockets, userID)
	}
	return nil
}

// player returns the live player row, for assertions.
func (m *memStore) player(id int) models.Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.players[id]
}

// ledgerEntries returns a copy of the ledger, for assertions.
func (m *memStore) ledgerEntries() []models.PointsLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.PointsLog, len(m.ledger))
	for i, l := range m.ledger {
		out[i] = *l
	}
	return out
}

// recNotifier records every pushed event.
type recNotifier struct {
	mu     sync.Mutex
	events []recEvent
}

type recEvent struct {
	UserID int
	Event  string
}

func (n *recNotifier) Notify(userID int, event string, _ interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recEvent{UserID: userID, Event: event})
}

func (n *recNotifier) count(userID int, event string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, e := range n.events {
		if e.UserID == userID && e.Event == event {
			count++
		}
	}
	return count
}

// waitFor polls until the user has received the event or the deadline hits.
func (n *recNotifier) waitFor(userID int, event string) bool {
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if n.count(userID, event) > 0 {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func newTestEngine(seats, entryFee int) (*Engine, *memStore, *recNotifier) {
	st := newMemStore()
	notifier := &recNotifier{}
	cfg := &config.Config{
		SeatCapacity:    seats,
		EntryFee:        entryFee,
		GameTimeMinutes: 10,
		PlayGameDelayMS: 1,
		RoomCodeLength:  6,
	}
	return NewEngine(st, notifier, cfg), st, notifier
}

// seatRoom joins users 1..seats into a fresh room and returns its id plus
// the player ids in seat order. The room is full and active afterwards.
func seatRoom(e *Engine, seats int) (int, []int, error) {
	var roomID int
	for userID := 1; userID <= seats; userID++ {
		snap, err := e.JoinRoom(context.Background(), userID, "")
		if err != nil {
			return 0, nil, err
		}
		roomID = snap.Room.ID
	}

	players, err := e.store.ListRoomPlayers(context.Background(), roomID)
	if err != nil {
		return 0, nil, err
	}
	ids := make([]int, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return roomID, ids, nil
}
