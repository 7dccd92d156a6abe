package pubsub

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermillBridge_PublishSubscribe(t *testing.T) {
	bridge := NewWatermillBridge()
	defer bridge.Close()

	ctx := context.Background()
	received := make(chan Message, 1)

	err := bridge.Subscribe(ctx, "test.topic", func(ctx context.Context, msg Message) error {
		received <- msg
		return nil
	})
	require.NoError(t, err)

	err = bridge.Publish(ctx, Message{
		Topic:   "test.topic",
		ConnID:  "c1",
		Payload: []byte(`{"hello":"world"}`),
		Metadata: map[string]string{
			"kind": "event",
		},
	})
	require.NoError(t, err)

	select {
	case msg := <-received:
		assert.Equal(t, "test.topic", msg.Topic)
		assert.Equal(t, "c1", msg.ConnID)
		assert.Equal(t, `{"hello":"world"}`, string(msg.Payload))
		assert.Equal(t, "event", msg.Metadata["kind"])
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestWatermillBridge_PreservesPublishOrder(t *testing.T) {
	bridge := NewWatermillBridge()
	defer bridge.Close()

	ctx := context.Background()
	const count = 20
	received := make(chan string, count)

	err := bridge.Subscribe(ctx, "test.order", func(ctx context.Context, msg Message) error {
		received <- string(msg.Payload)
		return nil
	})
	require.NoError(t, err)

	for i := 0; i < count; i++ {
		err := bridge.Publish(ctx, Message{
			Topic:   "test.order",
			Payload: []byte(fmt.Sprintf("msg-%02d", i)),
		})
		require.NoError(t, err)
	}

	for i := 0; i < count; i++ {
		select {
		case payload := <-received:
			assert.Equal(t, fmt.Sprintf("msg-%02d", i), payload)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for message %d", i)
		}
	}
}

func TestWatermillBridge_SubscribersAreIndependent(t *testing.T) {
	bridge := NewWatermillBridge()
	defer bridge.Close()

	ctx := context.Background()
	first := make(chan Message, 1)
	second := make(chan Message, 1)

	require.NoError(t, bridge.Subscribe(ctx, "test.fanout", func(ctx context.Context, msg Message) error {
		first <- msg
		return nil
	}))
	require.NoError(t, bridge.Subscribe(ctx, "test.fanout", func(ctx context.Context, msg Message) error {
		second <- msg
		return nil
	}))

	require.NoError(t, bridge.Publish(ctx, Message{Topic: "test.fanout", Payload: []byte("ping")}))

	for name, ch := range map[string]chan Message{"first": first, "second": second} {
		select {
		case msg := <-ch:
			assert.Equal(t, "ping", string(msg.Payload))
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %s subscriber", name)
		}
	}
}
