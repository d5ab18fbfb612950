package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisPubSub_PublishSubscribe(t *testing.T) {
	mr := miniredis.RunT(t)

	ps, err := NewRedisPubSub(RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer ps.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := ps.Subscribe(ctx, ChannelSearchPerformed)
	require.NoError(t, err)

	evt, err := NewEvent(EventSearchPerformed, "harry", SearchPerformedPayload{
		Query: "harry", Category: "all", Results: 35, Total: 150,
	})
	require.NoError(t, err)
	require.NoError(t, ps.Publish(ctx, ChannelSearchPerformed, evt))

	select {
	case got := <-events:
		assert.Equal(t, EventSearchPerformed, got.Type)
		assert.Equal(t, "harry", got.Key)

		var payload SearchPerformedPayload
		require.NoError(t, got.UnmarshalPayload(&payload))
		assert.Equal(t, 150, payload.Total)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}

	require.NoError(t, ps.Unsubscribe(ctx, ChannelSearchPerformed))
}

func TestNewRedisPubSub_Unreachable(t *testing.T) {
	_, err := NewRedisPubSub(RedisConfig{Address: "127.0.0.1:1", ReadTimeout: 100 * time.Millisecond})
	assert.Error(t, err)
}
