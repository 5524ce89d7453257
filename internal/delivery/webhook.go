// Package delivery posts terminal verification results to caller-supplied
// callback URLs. Delivery is best-effort: it is bounded, never retried
// beyond its own attempts, and never affects the verification result.
package delivery

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"verification-backend/internal/verification"
	"verification-backend/pkg/models"

	"github.com/go-resty/resty/v2"
)

const (
	maxAttempts     = 3
	attemptInterval = time.Second
	requestTimeout  = 10 * time.Second
)

type Notifier struct {
	client   *resty.Client
	attempts int
	interval time.Duration
}

func NewNotifier() *Notifier {
	return &Notifier{
		client:   resty.New().SetTimeout(requestTimeout),
		attempts: maxAttempts,
		interval: attemptInterval,
	}
}

// Notify posts the webhook payload for result to callbackURL, stopping at
// the first 200 response. The returned error reports exhaustion; callers log
// it and move on.
func (n *Notifier) Notify(ctx context.Context, callbackURL string, result verification.Result) error {
	payload := models.WebhookPayload{
		ReportId:   result.ReportID,
		IsVerified: result.Verified,
		Timestamp:  time.Now().Unix(),
		Message:    result.Message,
	}

	var lastErr error
	for attempt := 1; attempt <= n.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(n.interval):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		res, err := n.client.R().
			SetContext(ctx).
			SetBody(payload).
			Post(callbackURL)
		if err != nil {
			lastErr = err
			continue
		}
		if res.StatusCode() == http.StatusOK {
			return nil
		}
		lastErr = fmt.Errorf("callback returned status %d", res.StatusCode())
	}

	return fmt.Errorf("webhook delivery to %s failed after %d attempts: %w", callbackURL, n.attempts, lastErr)
}
