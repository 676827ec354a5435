package utils

import (
	"fmt"
	"time"
)

// Retry runs op up to maxAttempts times, doubling the delay between attempts
// starting from initialDelay. Only use it for idempotent reads; writes have
// no idempotency key here and must not be retried.
func Retry(maxAttempts int, initialDelay time.Duration, op func() error) error {
	if maxAttempts < 1 {
		return fmt.Errorf("maxAttempts must be at least 1")
	}

	var err error
	delay := initialDelay
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}
		time.Sleep(delay)
		delay *= 2
	}
	return fmt.Errorf("all %d attempts failed, last error: %v", maxAttempts, err)
}
