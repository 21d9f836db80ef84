package varlist

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// MaxRecordLen caps how large a single record the Reader will buffer.
// Streams are untrusted input; a corrupt length field must not translate
// into an unbounded allocation. Firmware variables top out far below this.
const MaxRecordLen = 1 << 20

// Reader decodes consecutive records from an io.Reader.
type Reader struct {
	r   *bufio.Reader
	off int64
}

// NewReader returns a Reader scanning r from its current position.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next decodes and returns the next record. It returns io.EOF at a clean
// end of the stream. A stream that ends inside a record yields
// ErrBufferTooSmall and one whose record fails its checksum yields
// ErrCorrupted, each annotated with the record's starting offset.
func (r *Reader) Next() (*Entry, error) {
	start := r.off

	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r.r, header); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("record at offset %d truncated: %w", start, ErrBufferTooSmall)
		}
		return nil, err
	}

	nameSize := binary.LittleEndian.Uint32(header[0:4])
	dataSize := binary.LittleEndian.Uint32(header[4:8])
	need := uint64(overhead) + uint64(nameSize) + uint64(dataSize)
	if need > MaxRecordLen {
		return nil, fmt.Errorf("record at offset %d declares %d bytes, limit %d: %w", start, need, MaxRecordLen, ErrCorrupted)
	}

	full := make([]byte, need)
	copy(full, header)
	if _, err := io.ReadFull(r.r, full[headerSize:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("record at offset %d truncated: %w", start, ErrBufferTooSmall)
		}
		return nil, err
	}

	e, n, err := Decode(full)
	if err != nil {
		return nil, fmt.Errorf("record at offset %d: %w", start, err)
	}
	r.off += int64(n)
	return e, nil
}

// Offset returns the byte offset of the next record.
func (r *Reader) Offset() int64 {
	return r.off
}
