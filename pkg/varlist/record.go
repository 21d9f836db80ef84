package varlist

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"math"
	"unicode/utf16"
)

// Wire layout. A serialized entry is:
//
//	[NameSize(4)][DataSize(4)][Name(NameSize)][GUID(16)][Attributes(4)][Data(DataSize)][CRC32(4)]
const (
	headerSize = 8 // NameSize + DataSize
	guidSize   = 16
	attrSize   = 4
	crcSize    = 4
	overhead   = headerSize + guidSize + attrSize + crcSize
)

// MaxNameLen is the longest variable name Encode accepts, in UTF-16 code
// units excluding the terminator. The firmware side reserves a 128-unit
// name buffer per entry; the terminator takes one unit.
const MaxNameLen = 127

// Entry is one decoded variable: a named, GUID-scoped binary payload with
// an opaque attribute word.
type Entry struct {
	Name       string // Variable name, non-empty
	GUID       GUID   // Vendor namespace
	Attributes uint32 // Passed through unmodified
	Data       []byte // Payload bytes
}

// EncodedLen returns the exact number of bytes Encode produces for e.
func (e *Entry) EncodedLen() int {
	return overhead + 2*(len(utf16.Encode([]rune(e.Name)))+1) + len(e.Data)
}

// Encode serializes e into a freshly allocated buffer.
func Encode(e *Entry) ([]byte, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}
	buf := make([]byte, e.EncodedLen())
	if _, err := EncodeTo(buf, e); err != nil {
		return nil, err
	}
	return buf, nil
}

// EncodeTo serializes e into dst and returns the number of bytes written.
// If dst is too short it returns the required length together with
// ErrInvalidArgument, leaving dst untouched.
func EncodeTo(dst []byte, e *Entry) (int, error) {
	if err := e.validate(); err != nil {
		return 0, err
	}

	units := utf16.Encode([]rune(e.Name))
	nameSize := 2 * (len(units) + 1)
	need := overhead + nameSize + len(e.Data)
	if len(dst) < need {
		return need, fmt.Errorf("destination holds %d of %d bytes: %w", len(dst), need, ErrInvalidArgument)
	}

	binary.LittleEndian.PutUint32(dst[0:], uint32(nameSize))
	binary.LittleEndian.PutUint32(dst[4:], uint32(len(e.Data)))
	off := headerSize
	for _, u := range units {
		binary.LittleEndian.PutUint16(dst[off:], u)
		off += 2
	}
	binary.LittleEndian.PutUint16(dst[off:], 0) // NUL terminator
	off += 2
	copy(dst[off:], e.GUID[:])
	off += guidSize
	binary.LittleEndian.PutUint32(dst[off:], e.Attributes)
	off += attrSize
	copy(dst[off:], e.Data)
	off += len(e.Data)
	binary.LittleEndian.PutUint32(dst[off:], crc32.ChecksumIEEE(dst[:off]))

	return need, nil
}

// Decode deserializes the first record in buf. On success it returns the
// entry and the number of bytes the record occupied; name and payload are
// copied out of buf.
//
// An incomplete record yields ErrBufferTooSmall together with the number
// of bytes the full record needs, so callers accumulating input can retry
// once more is available. A complete record whose checksum or name
// structure is wrong yields ErrCorrupted. Nothing is retained on failure.
func Decode(buf []byte) (*Entry, int, error) {
	if len(buf) < headerSize {
		return nil, headerSize, fmt.Errorf("%d bytes is shorter than a record header: %w", len(buf), ErrBufferTooSmall)
	}
	nameSize := binary.LittleEndian.Uint32(buf[0:4])
	dataSize := binary.LittleEndian.Uint32(buf[4:8])

	// 64-bit arithmetic: the declared sizes are attacker-controlled and
	// must not overflow the bounds check.
	need := uint64(overhead) + uint64(nameSize) + uint64(dataSize)
	if need > uint64(len(buf)) {
		return nil, int(need), fmt.Errorf("record needs %d bytes, have %d: %w", need, len(buf), ErrBufferTooSmall)
	}
	n := int(need)

	stored := binary.LittleEndian.Uint32(buf[n-crcSize : n])
	if sum := crc32.ChecksumIEEE(buf[:n-crcSize]); sum != stored {
		return nil, n, fmt.Errorf("checksum mismatch: stored %#08x, computed %#08x: %w", stored, sum, ErrCorrupted)
	}

	if nameSize < 2 || nameSize%2 != 0 {
		return nil, n, fmt.Errorf("name field of %d bytes: %w", nameSize, ErrCorrupted)
	}
	units := make([]uint16, nameSize/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(buf[headerSize+2*i:])
	}
	if units[len(units)-1] != 0 {
		return nil, n, fmt.Errorf("name missing NUL terminator: %w", ErrCorrupted)
	}
	units = units[:len(units)-1]
	if len(units) == 0 {
		return nil, n, fmt.Errorf("empty variable name: %w", ErrCorrupted)
	}
	for _, u := range units {
		if u == 0 {
			return nil, n, fmt.Errorf("name contains embedded NUL: %w", ErrCorrupted)
		}
	}

	e := &Entry{Name: string(utf16.Decode(units))}
	off := headerSize + int(nameSize)
	copy(e.GUID[:], buf[off:off+guidSize])
	off += guidSize
	e.Attributes = binary.LittleEndian.Uint32(buf[off:])
	off += attrSize
	e.Data = make([]byte, dataSize)
	copy(e.Data, buf[off:off+int(dataSize)])

	return e, n, nil
}

func (e *Entry) validate() error {
	if e == nil {
		return fmt.Errorf("nil entry: %w", ErrInvalidArgument)
	}
	if e.Name == "" {
		return fmt.Errorf("empty variable name: %w", ErrInvalidArgument)
	}
	units := utf16.Encode([]rune(e.Name))
	if len(units) > MaxNameLen {
		return fmt.Errorf("variable name is %d UTF-16 units, limit %d: %w", len(units), MaxNameLen, ErrInvalidArgument)
	}
	for _, u := range units {
		if u == 0 {
			return fmt.Errorf("variable name contains NUL: %w", ErrInvalidArgument)
		}
	}
	if uint64(len(e.Data)) > math.MaxUint32 {
		return fmt.Errorf("payload of %d bytes exceeds the 32-bit size field: %w", len(e.Data), ErrInvalidArgument)
	}
	return nil
}
