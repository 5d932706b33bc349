package crawl

import (
	"context"
	"time"

	"github.com/Marlup/gcloud-instruction-generator"
)

// FetchFunc fetches the page at url.
type FetchFunc func(ctx context.Context, url string) (string, error)

// LogFunc receives printf-style notices.
type LogFunc func(format string, args ...any)

// Backoff lists the waits between successive attempts of a fetch. A fetch is
// attempted once more than the number of waits.
type Backoff []time.Duration

// DefaultBackoff waits 1s, 2s and 4s between four attempts.
func DefaultBackoff() Backoff {
	return Backoff{time.Second, 2 * time.Second, 4 * time.Second}
}

// Fetch calls fetch until it succeeds or the waits run out. Errors that
// igen.IsRetryable rejects, such as a missing page, end the loop at once.
func (b Backoff) Fetch(ctx context.Context, url string, fetch FetchFunc, logf LogFunc) (string, error) {
	for attempt := 0; ; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		if attempt == len(b) || !igen.IsRetryable(err) {
			return "", err
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if logf != nil {
			logf("retry %s (attempt %d): %v", url, attempt+2, err)
		}
		if err := sleep(ctx, b[attempt]); err != nil {
			return "", err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
