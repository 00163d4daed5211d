package engine

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/time/rate"
)

// chunkSize bounds every buffered read/write in the pipeline.
const chunkSize = 1 << 20

// cryptoErase encrypts the file in place under a fresh AES-256 key that is
// never stored, making its current content unrecoverable independent of the
// overwrite passes. Key, IV and buffer are cleared before returning.
func cryptoErase(ctx context.Context, path string, limiter *rate.Limiter) (written int64, err error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return 0, stageErr("crypto-erase", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, stageErr("crypto-erase", path, err)
	}
	length := info.Size()

	key := make([]byte, 32)
	iv := make([]byte, aes.BlockSize)
	defer clear(key)
	defer clear(iv)
	if _, err := rand.Read(key); err != nil {
		return 0, stageErr("crypto-erase", path, fmt.Errorf("generate key: %w", err))
	}
	if _, err := rand.Read(iv); err != nil {
		return 0, stageErr("crypto-erase", path, fmt.Errorf("generate iv: %w", err))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return 0, stageErr("crypto-erase", path, err)
	}
	stream := cipher.NewCTR(block, iv)

	buf := make([]byte, chunkSize)
	defer clear(buf)

	for written < length {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		chunk := buf[:min(int64(chunkSize), length-written)]
		n, rerr := f.ReadAt(chunk, written)
		if rerr != nil && !errors.Is(rerr, io.EOF) {
			return written, stageErr("crypto-erase", path, rerr)
		}
		if n == 0 {
			break // file shrank underneath us
		}
		stream.XORKeyStream(chunk[:n], chunk[:n])
		if err := throttle(ctx, limiter, n); err != nil {
			return written, err
		}
		if _, err := f.WriteAt(chunk[:n], written); err != nil {
			return written, stageErr("crypto-erase", path, err)
		}
		written += int64(n)
	}

	if err := f.Sync(); err != nil {
		return written, stageErr("crypto-erase", path, err)
	}
	return written, nil
}
