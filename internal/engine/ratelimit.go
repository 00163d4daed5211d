package engine

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// NewBWLimiter creates a rate.Limiter that caps aggregate write throughput
// to bytesPerSec. The burst is 1 MB so a full overwrite chunk passes
// through in one token grab.
func NewBWLimiter(bytesPerSec int64) *rate.Limiter {
	burst := chunkSize
	if bytesPerSec < int64(burst) {
		burst = int(bytesPerSec)
	}
	return rate.NewLimiter(rate.Limit(bytesPerSec), burst)
}

// throttle blocks until limiter admits n bytes. Requests larger than the
// burst are admitted in burst-sized slices. A nil limiter never blocks.
func throttle(ctx context.Context, limiter *rate.Limiter, n int) error {
	if limiter == nil {
		return nil
	}
	for n > 0 {
		k := min(n, limiter.Burst())
		if err := limiter.WaitN(ctx, k); err != nil {
			return err
		}
		n -= k
	}
	return nil
}

// rateLimitedWriter wraps an io.Writer and enforces a shared rate limit.
type rateLimitedWriter struct {
	w       io.Writer
	limiter *rate.Limiter
	ctx     context.Context
}

func newRateLimitedWriter(ctx context.Context, w io.Writer, limiter *rate.Limiter) io.Writer {
	if limiter == nil {
		return w
	}
	return &rateLimitedWriter{w: w, limiter: limiter, ctx: ctx}
}

func (rw *rateLimitedWriter) Write(p []byte) (int, error) {
	if err := throttle(rw.ctx, rw.limiter, len(p)); err != nil {
		return 0, err
	}
	return rw.w.Write(p)
}
