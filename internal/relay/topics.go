package relay

// TopicInbound is the single bus topic carrying all inbound traffic: client
// event frames and transport lifecycle notifications. Funneling everything
// through one topic with one consumer is what serializes mutations of the
// presence and room state.
const TopicInbound = "relay.events.inbound"

// MetaKeyKind distinguishes lifecycle notifications from client event frames
// on the inbound topic.
const MetaKeyKind = "kind"

// Values for MetaKeyKind.
const (
	KindEvent        = "event"
	KindConnected    = "connected"
	KindDisconnected = "disconnected"
)
