// Package ingest streams untrusted upload bodies to disk under a strict byte
// cap. Worst-case disk use is bounded by the cap plus one chunk regardless of
// how much the client sends.
package ingest

import (
	"errors"
	"io"
	"os"

	"whisperd/internal/services"
)

// chunkSize is the fixed read granularity. The running total is checked
// after every chunk.
const chunkSize = 1 << 20

// SaveLimited copies src to destinationPath in fixed-size chunks, aborting
// as soon as the running total exceeds maxBytes. A stream that ends with
// zero bytes written is an error. On success it returns the byte count.
func SaveLimited(src io.Reader, destinationPath string, maxBytes int64) (int64, error) {
	dst, err := os.Create(destinationPath)
	if err != nil {
		return 0, services.Wrap(nil, "ingest", "create destination", "", err)
	}
	defer dst.Close()

	var total int64
	buf := make([]byte, chunkSize)
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			total += int64(n)
			if total > maxBytes {
				return total, services.Wrap(services.ErrTooLarge, "ingest", "save upload", "", nil)
			}
			if _, writeErr := dst.Write(buf[:n]); writeErr != nil {
				return total, services.Wrap(nil, "ingest", "write chunk", "", writeErr)
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return total, services.Wrap(nil, "ingest", "read upload", "", readErr)
		}
	}

	if total == 0 {
		return 0, services.Wrap(services.ErrEmptyUpload, "ingest", "save upload", "", nil)
	}
	if err := dst.Close(); err != nil {
		return total, services.Wrap(nil, "ingest", "flush destination", "", err)
	}
	return total, nil
}
