package ws

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/playlexico/backend/internal/store"
)

// sessionlessStore satisfies the socket-session calls the hub makes; every
// other Store method is unreachable from the hub.
type sessionlessStore struct {
	store.Store
}

func (sessionlessStore) UpsertSocketSession(context.Context, int, string) error { return nil }
func (sessionlessStore) DeleteSocketSession(context.Context, int, string) error { return nil }

// newPeerServer accepts websocket upgrades and drains inbound frames until
// the connection drops.
func newPeerServer(t *testing.T) *httptest.Server {
	t.Helper()
	up := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func dialPeer(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func TestSendToUserWithoutConnection(t *testing.T) {
	h := NewHub(sessionlessStore{})
	// No Run loop, no clients: must be a silent drop.
	h.SendToUser(1, "boardUpdate", map[string]int{"room": 1})
}

func TestSendToUserDuringReconnect(t *testing.T) {
	srv := newPeerServer(t)
	defer srv.Close()

	h := NewHub(sessionlessStore{})
	go h.Run()

	const userID = 7
	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					h.SendToUser(userID, "boardUpdate", map[string]int{"room": 1})
				}
			}
		}()
	}

	// Each register replaces (and closes) the previous client's send
	// channel. Broadcasts racing the replacement must never hit a closed
	// channel.
	for i := 0; i < 200; i++ {
		client := &Client{
			conn:     dialPeer(t, srv),
			userID:   userID,
			socketID: fmt.Sprintf("socket-%d", i),
			send:     make(chan []byte, 256),
		}
		h.register <- client
		go client.writePump()
	}

	close(done)
	wg.Wait()
}
