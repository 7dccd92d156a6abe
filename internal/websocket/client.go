package websocket

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/coder/websocket"
	"github.com/nfrund/relay/internal/pubsub"
	"github.com/nfrund/relay/internal/relay"
)

// writeWait is the time allowed to write a message to the peer.
const writeWait = 10 * time.Second

// Client represents a single connected WebSocket client.
type Client struct {
	// ID is the transport-assigned connection identifier, unique per session.
	ID string
	// conn is the underlying WebSocket connection.
	conn *websocket.Conn
	// send is a buffered channel of outbound messages for this client.
	send chan []byte
	// bridge is a reference back to the bridge that manages this client.
	bridge *Bridge
}

// readPump pumps frames from the WebSocket connection onto the inbound bus
// topic. It runs once per connection and is the only reader on the connection.
func (c *Client) readPump() {
	defer func() {
		c.bridge.remove(c)
		c.conn.Close(websocket.StatusNormalClosure, "Client disconnected")
	}()

	for {
		_, frame, err := c.conn.Read(context.Background())
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || websocket.CloseStatus(err) == websocket.StatusGoingAway {
				slog.Info("WebSocket closed normally by client", "connID", c.ID)
			} else if err != io.EOF {
				slog.Error("WebSocket read error", "connID", c.ID, "error", err)
			}
			break
		}

		msg := pubsub.Message{
			Topic:   relay.TopicInbound,
			ConnID:  c.ID,
			Payload: frame,
			Metadata: map[string]string{
				relay.MetaKeyKind: relay.KindEvent,
			},
		}
		if err := c.bridge.publisher.Publish(context.Background(), msg); err != nil {
			slog.Error("Failed to publish inbound frame", "connID", c.ID, "error", err)
		}
	}
}

// writePump pumps messages from the client's send channel to the WebSocket
// connection. It exits when the bridge closes the channel.
func (c *Client) writePump() {
	defer func() {
		c.conn.Close(websocket.StatusNormalClosure, "Server-side cleanup")
	}()

	for message := range c.send {
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		err := c.conn.Write(ctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			slog.Error("WebSocket write error", "connID", c.ID, "error", err)
			return
		}
	}
}
