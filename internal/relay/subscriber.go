package relay

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nfrund/relay/internal/pubsub"
)

// Subscriber consumes the inbound event stream off the pub/sub bus and feeds
// it to the Router. Exactly one Subscriber should run per router: the bus
// hands messages to it sequentially, so all state mutation happens from a
// single goroutine with no overlapping dispatches.
type Subscriber struct {
	subscriber pubsub.Subscriber
	router     *Router
	logger     *slog.Logger
}

// NewSubscriber creates a bus consumer for the given router.
func NewSubscriber(sub pubsub.Subscriber, router *Router) *Subscriber {
	return &Subscriber{
		subscriber: sub,
		router:     router,
		logger:     slog.Default().With("service", "relay"),
	}
}

// Start begins consuming the inbound topic. It returns once the subscription
// is active; message processing continues in the background until the context
// is canceled.
func (s *Subscriber) Start(ctx context.Context) error {
	return s.subscriber.Subscribe(ctx, TopicInbound, s.handleInbound)
}

// handleInbound routes one bus message. It always returns nil: a bad frame is
// dropped with a log line rather than poisoning the shared dispatch loop.
func (s *Subscriber) handleInbound(ctx context.Context, msg pubsub.Message) error {
	switch msg.Metadata[MetaKeyKind] {
	case KindConnected:
		s.router.HandleConnect(msg.ConnID)
	case KindDisconnected:
		s.router.HandleDisconnect(msg.ConnID)
	default:
		var env Envelope
		if err := json.Unmarshal(msg.Payload, &env); err != nil {
			s.logger.Debug("Dropping unparseable frame", "connID", msg.ConnID, "error", err)
			return nil
		}
		if env.Event == "" {
			s.logger.Debug("Dropping frame with no event name", "connID", msg.ConnID)
			return nil
		}
		s.router.Dispatch(msg.ConnID, env.Event, env.Data)
	}
	return nil
}
