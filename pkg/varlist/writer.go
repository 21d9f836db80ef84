package varlist

import (
	"bufio"
	"io"
)

// Writer appends encoded records to an io.Writer through a buffer.
type Writer struct {
	w *bufio.Writer
	n int64
}

// NewWriter returns a Writer appending to w. Call Flush before relying on
// the underlying writer having seen the bytes.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write encodes e and appends it to the stream, returning the encoded
// length.
func (w *Writer) Write(e *Entry) (int, error) {
	buf, err := Encode(e)
	if err != nil {
		return 0, err
	}
	n, err := w.w.Write(buf)
	w.n += int64(n)
	return n, err
}

// Flush writes any buffered records to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Written returns the total number of bytes appended, including bytes
// still sitting in the buffer.
func (w *Writer) Written() int64 {
	return w.n
}
