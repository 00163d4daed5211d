package engine

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// hashPrefix computes the BLAKE3 digest of the first length bytes of f.
func hashPrefix(f *os.File, length int64) ([]byte, error) {
	h := blake3.New()
	buf := make([]byte, 32*1024)
	n, err := io.CopyBuffer(h, io.NewSectionReader(f, 0, length), buf)
	if err != nil {
		return nil, fmt.Errorf("hash %s: %w", f.Name(), err)
	}
	if n != length {
		return nil, fmt.Errorf("hash %s: read %d of %d bytes", f.Name(), n, length)
	}
	return h.Sum(nil), nil
}

// verifyPass re-reads f and compares it to the digest of what the pass wrote.
func verifyPass(f *os.File, length int64, want []byte) error {
	got, err := hashPrefix(f, length)
	if err != nil {
		return err
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("verify %s: on-disk content differs from final pass", f.Name())
	}
	return nil
}
