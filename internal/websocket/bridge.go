package websocket

import (
	"context"
	"log/slog"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/relay/internal/pubsub"
	"github.com/nfrund/relay/internal/relay"
)

// Bridge manages all WebSocket connections. Inbound frames and lifecycle
// notifications go onto the pub/sub bus; outbound payloads come back in
// through the relay.Sender methods.
type Bridge struct {
	publisher pubsub.Publisher

	// clients maps connection IDs to their live clients.
	clients map[string]*Client

	// sendBuffer sizes each client's outbound channel.
	sendBuffer int

	// mu protects the clients map, which is read by the Sender methods and
	// mutated on connect/disconnect.
	mu sync.RWMutex
}

// NewBridge initializes a new Bridge, ready to handle connections.
func NewBridge(pub pubsub.Publisher, sendBuffer int) *Bridge {
	return &Bridge{
		publisher:  pub,
		clients:    make(map[string]*Client),
		sendBuffer: sendBuffer,
	}
}

// Handler returns an echo.HandlerFunc that upgrades requests to WebSocket
// connections and hands them to the bridge.
func (b *Bridge) Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
			InsecureSkipVerify: true, // In production, check origin.
		})
		if err != nil {
			slog.Error("Failed to upgrade connection to WebSocket", "error", err)
			return err
		}

		client := &Client{
			ID:     uuid.NewString(),
			conn:   conn,
			send:   make(chan []byte, b.sendBuffer),
			bridge: b,
		}
		b.add(client)

		// Announce the connection before any of its frames can be read, so the
		// inbound stream sees connect strictly first.
		b.publishLifecycle(client.ID, relay.KindConnected)

		go client.writePump()
		go client.readPump()

		return nil
	}
}

// add registers a new client.
func (b *Bridge) add(client *Client) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.clients[client.ID] = client
	slog.Info("Client registered", "connID", client.ID)
}

// remove unregisters a client, closes its send channel and publishes the
// disconnect notification. The notification goes out exactly once, no matter
// how many times remove is called for a connection.
func (b *Bridge) remove(client *Client) {
	b.mu.Lock()
	_, ok := b.clients[client.ID]
	if ok {
		delete(b.clients, client.ID)
		close(client.send)
	}
	b.mu.Unlock()

	if ok {
		slog.Info("Client unregistered", "connID", client.ID)
		b.publishLifecycle(client.ID, relay.KindDisconnected)
	}
}

// Send delivers a payload to one connection. If the client's buffer is full
// the payload is dropped; delivery is best-effort by design.
func (b *Bridge) Send(connID string, payload []byte) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	client, ok := b.clients[connID]
	if !ok {
		slog.Debug("Attempted to send to non-existent client", "connID", connID)
		return
	}
	select {
	case client.send <- payload:
	default:
		slog.Warn("Client send channel full, dropping message", "connID", connID)
	}
}

// Broadcast delivers a payload to every live connection. Each send is
// independent; a full buffer on one client never stalls the others.
func (b *Bridge) Broadcast(payload []byte) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, client := range b.clients {
		select {
		case client.send <- payload:
		default:
			slog.Warn("Client send channel full, dropping broadcast", "connID", client.ID)
		}
	}
}

func (b *Bridge) publishLifecycle(connID, kind string) {
	msg := pubsub.Message{
		Topic:  relay.TopicInbound,
		ConnID: connID,
		Metadata: map[string]string{
			relay.MetaKeyKind: kind,
		},
	}
	if err := b.publisher.Publish(context.Background(), msg); err != nil {
		slog.Error("Failed to publish lifecycle event", "connID", connID, "kind", kind, "error", err)
	}
}
