package shell

import (
	"io"
	"strings"
)

// LineWriter adapts Instance.Log to io.Writer with line buffering.
// Incomplete lines are held until a newline arrives or Flush is called.
type LineWriter struct {
	emit func(string)
	buf  []byte
}

var _ io.Writer = (*LineWriter)(nil)

// Write implements io.Writer.
func (w *LineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		idx := -1
		for n, b := range w.buf {
			if b == '\n' {
				idx = n
				break
			}
		}
		if idx < 0 {
			break
		}
		line := strings.TrimSuffix(string(w.buf[:idx]), "\r")
		w.buf = w.buf[idx+1:]
		w.emit(line)
	}
	return len(p), nil
}

// Flush emits any buffered partial line.
func (w *LineWriter) Flush() {
	if len(w.buf) > 0 {
		line := string(w.buf)
		w.buf = w.buf[:0]
		w.emit(line)
	}
}
