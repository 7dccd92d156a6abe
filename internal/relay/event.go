package relay

import "encoding/json"

// Inbound event names. These are the events clients emit at the relay.
const (
	EventNewUser        = "newUser"
	EventJoinRoom       = "joinRoom"
	EventRoomMessage    = "roomMessage"
	EventPrivateMessage = "privateMessage"
	EventTyping         = "typing"
	EventStopTyping     = "stopTyping"
	EventReadMessage    = "readMessage"
	EventReactToMessage = "reactToMessage"
)

// Outbound event names. These are the events the relay emits at clients.
const (
	EventUpdateUsers     = "updateUsers"
	EventMessage         = "message"
	EventMessageRead     = "messageRead"
	EventMessageReaction = "messageReaction"
)

// Envelope is the wire framing for every event in either direction:
// an event name plus an event-specific JSON payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Encode wraps a payload in an Envelope and marshals it for the wire.
func Encode(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}

// NewUserPayload announces a connection's display name.
type NewUserPayload struct {
	Name string `json:"name" validate:"required"`
}

// JoinRoomPayload moves a connection into a room, superseding any prior room.
type JoinRoomPayload struct {
	Room string `json:"room" validate:"required"`
}

// MessagePayload is the content of a room or private message. Text and Image
// are independently optional; Time is formatted by the originating client and
// passed through untouched.
type MessagePayload struct {
	ID    string `json:"id" validate:"required"`
	User  string `json:"user,omitempty"`
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`
	Time  string `json:"time,omitempty"`
}

// PrivateMessagePayload is a MessagePayload addressed to a named recipient.
type PrivateMessagePayload struct {
	MessagePayload
	To string `json:"to" validate:"required"`
}

// TypingPayload carries the typing user's registered name to the rest of the room.
type TypingPayload struct {
	User string `json:"user"`
}

// ReadMessagePayload asks the relay to notify the named original sender that
// their message has been read.
type ReadMessagePayload struct {
	From string `json:"from" validate:"required"`
}

// MessageReadPayload is the confirmation delivered to the original sender.
type MessageReadPayload struct {
	By   string `json:"by"`
	Time string `json:"time"`
}

// ReactionPayload tags a message with an emoji, broadcast to the named room.
// The relay does not check that the message id was ever sent to that room.
type ReactionPayload struct {
	ID    string `json:"id" validate:"required"`
	Emoji string `json:"emoji" validate:"required"`
	Room  string `json:"room" validate:"required"`
}

// MessageReactionPayload is the broadcast form of a reaction.
type MessageReactionPayload struct {
	ID    string `json:"id"`
	Emoji string `json:"emoji"`
}

// SystemMessagePayload is a relay-generated room announcement, e.g. joins and leaves.
type SystemMessagePayload struct {
	User string `json:"user"`
	Text string `json:"text"`
	Time string `json:"time"`
}

// SystemUser is the sender name on relay-generated announcements.
const SystemUser = "System"
