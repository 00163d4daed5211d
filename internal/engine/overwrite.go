package engine

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"

	"github.com/bamsammich/wipe/internal/event"
)

// overwrite runs every pass of the selected method over path, start to
// end. Each pass re-reads the current length, so bytes appended by another
// writer between passes are covered by the next pass. Every pass is synced
// before the next begins.
func overwrite(ctx context.Context, path string, opts Options) (written int64, err error) {
	patterns := opts.patterns()

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return 0, stageErr("overwrite", path, err)
	}
	defer f.Close()

	buf := make([]byte, chunkSize)
	defer clear(buf)
	w := newRateLimitedWriter(ctx, f, opts.Limiter)

	for i, p := range patterns {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		pass := i + 1
		if opts.beforePass != nil {
			opts.beforePass(path, pass)
		}

		info, err := f.Stat()
		if err != nil {
			return written, stageErr("overwrite", path, err)
		}
		length := info.Size()

		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return written, stageErr("overwrite", path, err)
		}

		// Only the last pass is verified; earlier passes are overwritten anyway.
		var h *blake3.Hasher
		if opts.Verify && pass == len(patterns) {
			h = blake3.New()
		}

		n, err := writePass(w, h, buf, p, length)
		written += n
		if err != nil {
			return written, stageErr("overwrite", path, err)
		}
		if err := f.Sync(); err != nil {
			return written, stageErr("overwrite", path, err)
		}
		if h != nil {
			if err := verifyPass(f, length, h.Sum(nil)); err != nil {
				return written, stageErr("verify", path, err)
			}
		}

		opts.stats().AddPassesCompleted(1)
		opts.stats().AddBytesWritten(n)
		opts.emit(event.Event{
			Type:  event.PassCompleted,
			Path:  path,
			Label: fmt.Sprintf("pass %d/%d (%s)", pass, len(patterns), p),
			Pass:  pass,
			Size:  length,
		})
	}
	return written, nil
}

// writePass writes exactly length bytes of pattern p to w in chunks of
// len(buf). Random patterns draw fresh bytes for every chunk.
func writePass(w io.Writer, h *blake3.Hasher, buf []byte, p Pattern, length int64) (int64, error) {
	if !p.Random {
		for i := range buf {
			buf[i] = p.Byte
		}
	}
	var done int64
	for done < length {
		chunk := buf[:min(int64(len(buf)), length-done)]
		if p.Random {
			if _, err := rand.Read(chunk); err != nil {
				return done, fmt.Errorf("random pass data: %w", err)
			}
		}
		n, err := w.Write(chunk)
		done += int64(n)
		if err != nil {
			return done, err
		}
		if h != nil {
			h.Write(chunk) //nolint:errcheck // hash.Hash never errors
		}
	}
	return done, nil
}
