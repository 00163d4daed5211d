// Package retry provides a small bounded retry-with-delay primitive shared by
// the wipe stages that tolerate transient failures (attribute clearing,
// renames under lock contention).
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds a retry loop. Attempts counts the first try, so Attempts=3
// means at most two retries. Delay is the constant wait between attempts.
type Policy struct {
	Attempts int
	Delay    time.Duration
}

// Default is the policy used throughout the pipeline: three attempts, 100ms apart.
var Default = Policy{Attempts: 3, Delay: 100 * time.Millisecond}

// Do runs op until it succeeds, returns a permanent error, the attempts are
// exhausted, or ctx is done. The last error from op is returned.
func Do(ctx context.Context, p Policy, op func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Delay), uint64(attempts-1)), //nolint:gosec // attempts >= 1
		ctx,
	)
	return backoff.Retry(op, b)
}

// Permanent wraps err so that Do stops retrying immediately and returns err.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
