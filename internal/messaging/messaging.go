package messaging

import (
	"context"
	"time"

	"verification-backend/pkg/models"
)

const (
	VerifyQueue     = "verify_queue"
	RetryDelay      = 5 * time.Second
	MaxConnectRetry = 5
)

type Task interface {
	Type() string

	Payload() []byte

	Ack() error

	Nack() error

	Reject() error
}

type Publisher interface {
	PublishVerifyTask(ctx context.Context, payload models.VerifyTaskPayload) error

	Close()
}

type Receiver interface {
	Tasks() <-chan Task

	Close()
}
