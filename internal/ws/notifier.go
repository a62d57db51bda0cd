package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

// roomEventsChannel carries engine events between instances; every
// instance's subscriber delivers to its local hub.
const roomEventsChannel = "room_events"

type roomEvent struct {
	UserID int             `json:"user_id"`
	Event  string          `json:"event"`
	Data   json.RawMessage `json:"data"`
}

// Notifier is the engine's outbound channel. With Redis configured events
// go through the room_events channel so any instance holding the user's
// connection delivers them; without it delivery is local-only.
type Notifier struct {
	hub *Hub
	rdb *redis.Client
}

func NewNotifier(hub *Hub, rdb *redis.Client) *Notifier {
	return &Notifier{hub: hub, rdb: rdb}
}

// Notify pushes an event toward the user's live connection. Best-effort:
// failures are logged and swallowed, never surfaced to the state transition
// that produced the event.
func (n *Notifier) Notify(userID int, event string, payload interface{}) {
	if n.rdb == nil {
		n.hub.SendToUser(userID, event, payload)
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[WS] Failed to marshal %s payload: %v", event, err)
		return
	}
	body, err := json.Marshal(roomEvent{UserID: userID, Event: event, Data: data})
	if err != nil {
		log.Printf("[WS] Failed to marshal %s event: %v", event, err)
		return
	}

	if err := n.rdb.Publish(context.Background(), roomEventsChannel, body).Err(); err != nil {
		log.Printf("[WS] Publish %s failed, delivering locally: %v", event, err)
		n.hub.SendToUser(userID, event, payload)
	}
}

// StartRoomEventSubscriber subscribes to room_events and delivers incoming
// events to the local hub. No-op without a Redis client.
func StartRoomEventSubscriber(ctx context.Context, rdb *redis.Client, hub *Hub) {
	if rdb == nil {
		log.Println("[WS] Redis client not set; room event subscriber not started")
		return
	}

	pubsub := rdb.Subscribe(ctx, roomEventsChannel)
	ch := pubsub.Channel()
	go func() {
		log.Println("[WS] room_events subscriber started")
		for msg := range ch {
			var ev roomEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("[WS] Invalid room event payload: %v", err)
				continue
			}
			hub.SendToUser(ev.UserID, ev.Event, ev.Data)
		}
	}()
}
