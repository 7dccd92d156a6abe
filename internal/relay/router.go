package relay

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
)

// timeLayout matches the clock format the reference client renders, e.g. "3:04:05 PM".
const timeLayout = "3:04:05 PM"

// Sender is the relay's view of the transport: best-effort, fire-and-forget
// delivery to one connection or to every live connection. A failed or slow
// send must never block the caller.
type Sender interface {
	Send(connID string, payload []byte)
	Broadcast(payload []byte)
}

// Router is the central dispatcher. It resolves each inbound event to a set of
// target connections using the presence registry and room tracker, and emits
// the corresponding outbound event through the Sender.
//
// Routing is stateless per call and performs no queuing or delivery
// confirmation. Any resolution that finds zero targets is a silent no-op.
type Router struct {
	registry *Registry
	rooms    *Rooms
	sender   Sender
	validate *validator.Validate
	logger   *slog.Logger

	// now stamps relay-generated payloads (system messages, read receipts).
	now func() time.Time
}

// Option is a function that configures a Router.
type Option func(*Router)

// WithClock overrides the router's clock. Useful for testing.
func WithClock(now func() time.Time) Option {
	return func(r *Router) {
		r.now = now
	}
}

// NewRouter creates a router over the given state containers and transport.
func NewRouter(registry *Registry, rooms *Rooms, sender Sender, opts ...Option) *Router {
	r := &Router{
		registry: registry,
		rooms:    rooms,
		sender:   sender,
		validate: validator.New(),
		logger:   slog.Default().With("service", "router"),
		now:      func() time.Time { return time.Now() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type handlerFunc func(r *Router, connID string, data json.RawMessage)

// inboundHandlers is the closed dispatch table of event kinds the relay routes.
var inboundHandlers = map[string]handlerFunc{
	EventNewUser:        (*Router).handleNewUser,
	EventJoinRoom:       (*Router).handleJoinRoom,
	EventRoomMessage:    (*Router).handleRoomMessage,
	EventPrivateMessage: (*Router).handlePrivateMessage,
	EventTyping:         (*Router).handleTyping,
	EventStopTyping:     (*Router).handleStopTyping,
	EventReadMessage:    (*Router).handleReadMessage,
	EventReactToMessage: (*Router).handleReactToMessage,
}

// Dispatch routes one inbound event from the given connection. Unknown events
// and malformed payloads are dropped; nothing is ever surfaced back to the
// sender as an error.
func (r *Router) Dispatch(connID, event string, data json.RawMessage) {
	handler, ok := inboundHandlers[event]
	if !ok {
		r.logger.Debug("Dropping unknown event", "event", event, "connID", connID)
		return
	}
	handler(r, connID, data)
}

// HandleConnect reacts to a new transport connection. No relay state exists
// until the connection announces an identity.
func (r *Router) HandleConnect(connID string) {
	r.logger.Info("Connection established", "connID", connID)
}

// HandleDisconnect tears down a closed connection: presence entry removed and
// the updated user list broadcast, room membership vacated and a leave
// announcement sent to the remaining members. Teardown only acts on state that
// is still present, so a repeated disconnect signal is a no-op.
func (r *Router) HandleDisconnect(connID string) {
	name, announced := r.registry.Name(connID)
	if announced {
		r.registry.Unregister(connID)
		r.broadcastUserList()
	}

	room, vacated := r.rooms.Leave(connID)
	if vacated && announced {
		r.sendSystemMessage(room, "", name+" left "+room)
	}

	r.logger.Info("Connection closed", "connID", connID, "announced", announced)
}

func (r *Router) handleNewUser(connID string, data json.RawMessage) {
	var p NewUserPayload
	if !r.decode(EventNewUser, data, &p) {
		return
	}

	r.registry.Register(connID, p.Name)
	r.broadcastUserList()
}

func (r *Router) handleJoinRoom(connID string, data json.RawMessage) {
	var p JoinRoomPayload
	if !r.decode(EventJoinRoom, data, &p) {
		return
	}

	// Switching rooms is silent for the old room; only the joined room hears
	// an announcement, and never the joiner itself.
	r.rooms.Join(connID, p.Room)

	name, announced := r.registry.Name(connID)
	if !announced {
		// Nothing sensible to announce for a connection with no identity yet.
		return
	}
	r.sendSystemMessage(p.Room, connID, name+" joined "+p.Room)
}

func (r *Router) handleRoomMessage(connID string, data json.RawMessage) {
	room, ok := r.rooms.Current(connID)
	if !ok {
		r.logger.Debug("Dropping room message from connection with no room", "connID", connID)
		return
	}

	var p MessagePayload
	if !r.decode(EventRoomMessage, data, &p) {
		return
	}

	// The payload is a pass-through: the relay neither rewrites the body nor
	// reinterprets the client-formatted timestamp.
	payload, err := Encode(EventMessage, json.RawMessage(data))
	if err != nil {
		r.logger.Error("Failed to encode room message", "error", err)
		return
	}
	r.sendToRoom(room, "", payload)
}

func (r *Router) handlePrivateMessage(connID string, data json.RawMessage) {
	var p PrivateMessagePayload
	if !r.decode(EventPrivateMessage, data, &p) {
		return
	}

	target, ok := r.registry.LookupByName(p.To)
	if !ok {
		r.logger.Debug("Dropping private message to unknown name", "to", p.To)
		return
	}

	from, _ := r.registry.Name(connID)

	// Pass the message fields through untouched, minus the routing field and
	// plus the relay-stamped sender name.
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return
	}
	delete(fields, "to")
	fields["from"] = from

	payload, err := Encode(EventPrivateMessage, fields)
	if err != nil {
		r.logger.Error("Failed to encode private message", "error", err)
		return
	}
	r.sender.Send(target, payload)
}

func (r *Router) handleTyping(connID string, data json.RawMessage) {
	room, ok := r.rooms.Current(connID)
	if !ok {
		return
	}
	name, announced := r.registry.Name(connID)
	if !announced {
		return
	}

	payload, err := Encode(EventTyping, TypingPayload{User: name})
	if err != nil {
		r.logger.Error("Failed to encode typing indicator", "error", err)
		return
	}
	r.sendToRoom(room, connID, payload)
}

func (r *Router) handleStopTyping(connID string, data json.RawMessage) {
	room, ok := r.rooms.Current(connID)
	if !ok {
		return
	}

	payload, err := Encode(EventStopTyping, nil)
	if err != nil {
		r.logger.Error("Failed to encode typing clear", "error", err)
		return
	}
	r.sendToRoom(room, connID, payload)
}

func (r *Router) handleReadMessage(connID string, data json.RawMessage) {
	var p ReadMessagePayload
	if !r.decode(EventReadMessage, data, &p) {
		return
	}

	target, ok := r.registry.LookupByName(p.From)
	if !ok {
		r.logger.Debug("Dropping read receipt for unknown name", "from", p.From)
		return
	}

	by, announced := r.registry.Name(connID)
	if !announced {
		return
	}

	payload, err := Encode(EventMessageRead, MessageReadPayload{
		By:   by,
		Time: r.now().Format(timeLayout),
	})
	if err != nil {
		r.logger.Error("Failed to encode read confirmation", "error", err)
		return
	}
	r.sender.Send(target, payload)
}

func (r *Router) handleReactToMessage(connID string, data json.RawMessage) {
	var p ReactionPayload
	if !r.decode(EventReactToMessage, data, &p) {
		return
	}

	// Reactions target the room named in the payload, sender included. The
	// message id is pure pass-through; the relay keeps no history to check it
	// against.
	payload, err := Encode(EventMessageReaction, MessageReactionPayload{
		ID:    p.ID,
		Emoji: p.Emoji,
	})
	if err != nil {
		r.logger.Error("Failed to encode reaction", "error", err)
		return
	}
	r.sendToRoom(p.Room, "", payload)
}

// broadcastUserList pushes the deduplicated online set to every live
// connection, announced or not.
func (r *Router) broadcastUserList() {
	payload, err := Encode(EventUpdateUsers, r.registry.OnlineUsers())
	if err != nil {
		r.logger.Error("Failed to encode user list", "error", err)
		return
	}
	r.sender.Broadcast(payload)
}

// sendSystemMessage delivers a relay-generated announcement to the members of
// a room, excluding the connection named by except (if any).
func (r *Router) sendSystemMessage(room, except, text string) {
	payload, err := Encode(EventMessage, SystemMessagePayload{
		User: SystemUser,
		Text: text,
		Time: r.now().Format(timeLayout),
	})
	if err != nil {
		r.logger.Error("Failed to encode system message", "error", err)
		return
	}
	r.sendToRoom(room, except, payload)
}

// sendToRoom fans a payload out to every member of a room. Each send is
// independent; one unresponsive connection cannot stall the others.
func (r *Router) sendToRoom(room, except string, payload []byte) {
	for _, connID := range r.rooms.Members(room) {
		if connID == except {
			continue
		}
		r.sender.Send(connID, payload)
	}
}

// decode unmarshals and validates an inbound payload. A malformed payload is
// logged and dropped; it must never take down the shared dispatch path.
func (r *Router) decode(event string, data json.RawMessage, v any) bool {
	if err := json.Unmarshal(data, v); err != nil {
		r.logger.Debug("Dropping malformed payload", "event", event, "error", err)
		return false
	}
	if err := r.validate.Struct(v); err != nil {
		r.logger.Debug("Dropping invalid payload", "event", event, "error", err)
		return false
	}
	return true
}
