package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) Close() error { return nil }

func TestRabbitPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := &RabbitPublisher{ch: ch, exchange: "orders"}

	err := p.Publish(context.Background(), OrderEvent{Type: OrderCreated, OrderID: "abc", Total: 20})
	require.NoError(t, err)

	assert.Equal(t, "orders", ch.exchange)
	assert.Equal(t, OrderCreated, ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)

	var got OrderEvent
	require.NoError(t, json.Unmarshal(ch.msg.Body, &got))
	assert.Equal(t, "abc", got.OrderID)
	assert.False(t, got.OccurredAt.IsZero())
}

func TestRabbitPublisher_PublishError(t *testing.T) {
	p := &RabbitPublisher{ch: &fakeChannel{err: errors.New("channel closed")}, exchange: "orders"}

	err := p.Publish(context.Background(), OrderEvent{Type: OrderPaid})

	assert.ErrorContains(t, err, "channel closed")
}
