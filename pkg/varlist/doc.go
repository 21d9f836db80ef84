// Package varlist implements the variable list record format used to
// persist firmware configuration overrides.
//
// A variable list is a tight concatenation of self-describing records,
// each carrying one named, GUID-scoped binary payload. The format is a
// fixed wire contract shared with the firmware side: encoders here must
// produce byte-identical output for identical input.
//
// # Record Format
//
// Records are serialized in a binary format with the following structure:
//
//	[NameSize(4)][DataSize(4)][Name(NameSize)][GUID(16)][Attributes(4)][Data(DataSize)][CRC32(4)]
//
// Fields:
//   - NameSize: byte length of the Name field including its two-byte NUL
//     terminator (little-endian)
//   - DataSize: byte length of the Data field (little-endian)
//   - Name: UTF-16LE variable name, NUL-terminated
//   - GUID: 128-bit vendor namespace in wire layout (see GUID)
//   - Attributes: opaque 32-bit attribute word (little-endian)
//   - Data: variable-length payload
//   - CRC32: IEEE CRC-32 over every preceding byte of the record
//     (little-endian)
//
// The total record size is: 32 bytes (fixed fields) + NameSize + DataSize.
//
// # Integrity
//
// The checksum covers the header, name, GUID, attributes and payload, so
// any byte corruption inside a structurally complete record is detected
// during Decode. Records that are merely incomplete are reported
// separately so callers accumulating a buffer can tell truncation from
// damage.
//
// # Error Handling
//
// Failures wrap one of four sentinels:
//   - ErrInvalidArgument: the caller violated the encoding contract
//   - ErrBufferTooSmall: the buffer ends before the record does; the
//     required length is reported alongside
//   - ErrCorrupted: checksum mismatch, or a structurally inconsistent
//     name field inside an otherwise complete record
//   - ErrNotFound: a name lookup exhausted the buffer without a match
//
// Classify with errors.Is; the error text carries offsets and sizes for
// diagnostics.
//
// # Concurrency
//
// Encode, Decode and the scanning functions are pure and safe for
// concurrent use. Reader and Writer instances are not; callers serialize
// access as they would for bufio.
package varlist
