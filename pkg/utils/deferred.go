// Package utils contains small helpers shared by the commands.
package utils

import (
	"io"
	"sync"
)

// DeferredWriter buffers writes until Flush is called. It holds log output
// while a full screen program owns the terminal.
type DeferredWriter struct {
	mu     sync.Mutex
	chunks [][]byte
}

// Write stores a copy of p.
func (d *DeferredWriter) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.chunks = append(d.chunks, append([]byte(nil), p...))
	return len(p), nil
}

// Flush writes every buffered chunk to w in order and clears the buffer.
func (d *DeferredWriter) Flush(w io.Writer) error {
	d.mu.Lock()
	chunks := d.chunks
	d.chunks = nil
	d.mu.Unlock()

	for _, c := range chunks {
		if _, err := w.Write(c); err != nil {
			return err
		}
	}
	return nil
}
