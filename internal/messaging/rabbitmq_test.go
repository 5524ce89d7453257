package messaging

import (
	"context"
	"testing"
	"time"

	"verification-backend/pkg/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wireReceiver reproduces the receiveTasks goroutine wiring with a local
// delivery channel standing in for the broker. closeConn ends the delivery
// stream, exactly as closing the AMQP connection does.
func wireReceiver(msgs chan amqp.Delivery) *RabbitMQReceiver {
	c := &RabbitMQReceiver{
		tasks: make(chan Task),
		stop:  make(chan struct{}),
	}

	done := make(chan struct{})
	go c.consume(msgs, done)
	go c.handleReconnect(make(chan *amqp.Error), func() error {
		close(msgs)
		return nil
	}, done)

	return c
}

func TestReceiverCloseReleasesConsumers(t *testing.T) {
	c := wireReceiver(make(chan amqp.Delivery))

	exited := make(chan struct{})
	go func() {
		for range c.Tasks() {
		}
		close(exited)
	}()

	c.Close()

	select {
	case <-exited:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer loop still blocked after Close")
	}
}

func TestReceiverDeliversThenCloses(t *testing.T) {
	msgs := make(chan amqp.Delivery)
	c := wireReceiver(msgs)

	go func() {
		msgs <- amqp.Delivery{RoutingKey: VerifyQueue, Body: []byte(`{}`)}
	}()

	select {
	case task := <-c.Tasks():
		assert.Equal(t, VerifyQueue, task.Type())
	case <-time.After(2 * time.Second):
		t.Fatal("delivery never reached the task channel")
	}

	c.Close()

	select {
	case _, ok := <-c.Tasks():
		assert.False(t, ok, "tasks channel should be closed after Close")
	case <-time.After(2 * time.Second):
		t.Fatal("tasks channel never closed after Close")
	}
}

func TestInMemoryQueuePublishAfterClose(t *testing.T) {
	queue := NewInMemoryQueue()
	queue.Close()

	err := queue.PublishVerifyTask(context.Background(), models.VerifyTaskPayload{ReportId: "R1", Type: "water"})
	require.Error(t, err)
}

func TestInMemoryQueueCloseIsIdempotent(t *testing.T) {
	queue := NewInMemoryQueue()

	assert.NotPanics(t, func() {
		queue.Close()
		queue.Close()
	})
}
