package knob

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log"

	"github.com/tmarstad/confknob/pkg/varlist"
	"github.com/tmarstad/confknob/pkg/varstore"
)

// ErrNoOverride reports that no usable override exists for a knob: the
// store had nothing under the name, failed, or returned a payload of the
// wrong size. Resolution treats all three alike.
var ErrNoOverride = errors.New("no usable override")

// FetchOverride reads a knob-shaped override from s. The value is accepted
// only when its payload is exactly size bytes; anything else, including a
// missing variable or a failing store, reads as ErrNoOverride.
func FetchOverride(s varstore.Store, guid varlist.GUID, name string, size int) ([]byte, error) {
	v, err := s.Get(guid, name)
	if err != nil {
		return nil, fmt.Errorf("override %q: %v: %w", name, err, ErrNoOverride)
	}
	if len(v.Data) != size {
		return nil, fmt.Errorf("override %q holds %d bytes, knob takes %d: %w", name, len(v.Data), size, ErrNoOverride)
	}
	return v.Data, nil
}

// Resolver resolves knobs against a variable store, keeping one
// fixed-size cache slot per knob.
//
// A Resolver is not safe for concurrent use. Resolution is a boot-phase
// activity with a single logical caller; anyone else serializes.
type Resolver struct {
	table *Table
	store varstore.Store
	log   *log.Logger
	slots [][]byte
}

// NewResolver returns a Resolver over table and store. A nil logger falls
// back to the standard logger.
func NewResolver(table *Table, store varstore.Store, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{
		table: table,
		store: store,
		log:   logger,
		slots: make([][]byte, table.Len()),
	}
}

// Table returns the metadata table the Resolver serves.
func (r *Resolver) Table() *Table {
	return r.table
}

// Resolve returns the current value of a knob. The override is refetched
// on every call; there is no memoization. The returned slice is the knob's
// cache slot: it keeps its backing array across calls and is overwritten
// by the next Resolve of the same id, so callers that hold on to the value
// must copy it.
//
// Resolution cannot fail. A missing, malformed or rejected override falls
// back to the default; a rejected value is also logged. Resolve panics on
// an id outside the table: that means the caller and the metadata table
// come from different profiles, which is a programming error rather than a
// runtime condition.
func (r *Resolver) Resolve(id ID) []byte {
	if id < 0 || int(id) >= r.table.Len() {
		panic(fmt.Sprintf("knob: id %d outside table of %d knobs", id, r.table.Len()))
	}
	k := r.table.knobs[id]

	slot := r.slots[id]
	if slot == nil {
		slot = make([]byte, k.Size)
		r.slots[id] = slot
	}

	if value, err := FetchOverride(r.store, k.GUID, k.Name, k.Size); err == nil {
		copy(slot, value)
	} else {
		copy(slot, k.Default)
	}

	// The validator sees the slot whatever its source; it can only veto,
	// never fail the resolution.
	if k.Validator != nil && !k.Validator.Validate(slot) {
		r.log.Printf("knob %s: value %x rejected by validator, using default", k.Name, slot)
		copy(slot, k.Default)
	}

	return slot
}

// Bool resolves a one-byte knob; any nonzero byte reads as true.
func (r *Resolver) Bool(id ID) bool {
	return r.fixed(id, 1)[0] != 0
}

// Uint8 resolves a one-byte unsigned knob.
func (r *Resolver) Uint8(id ID) uint8 {
	return r.fixed(id, 1)[0]
}

// Uint16 resolves a two-byte little-endian unsigned knob.
func (r *Resolver) Uint16(id ID) uint16 {
	return binary.LittleEndian.Uint16(r.fixed(id, 2))
}

// Uint32 resolves a four-byte little-endian unsigned knob.
func (r *Resolver) Uint32(id ID) uint32 {
	return binary.LittleEndian.Uint32(r.fixed(id, 4))
}

// Uint64 resolves an eight-byte little-endian unsigned knob.
func (r *Resolver) Uint64(id ID) uint64 {
	return binary.LittleEndian.Uint64(r.fixed(id, 8))
}

// Int8 resolves a one-byte signed knob.
func (r *Resolver) Int8(id ID) int8 {
	return int8(r.fixed(id, 1)[0])
}

// Int16 resolves a two-byte little-endian signed knob.
func (r *Resolver) Int16(id ID) int16 {
	return int16(binary.LittleEndian.Uint16(r.fixed(id, 2)))
}

// Int32 resolves a four-byte little-endian signed knob.
func (r *Resolver) Int32(id ID) int32 {
	return int32(binary.LittleEndian.Uint32(r.fixed(id, 4)))
}

// Int64 resolves an eight-byte little-endian signed knob.
func (r *Resolver) Int64(id ID) int64 {
	return int64(binary.LittleEndian.Uint64(r.fixed(id, 8)))
}

// Bytes resolves a knob of any size into a fresh copy the caller owns.
func (r *Resolver) Bytes(id ID) []byte {
	return append([]byte(nil), r.Resolve(id)...)
}

// fixed resolves id and panics unless the knob holds exactly size bytes.
// A size mismatch here is the same class of error as an unknown id: the
// accessor and the table disagree about the knob's type.
func (r *Resolver) fixed(id ID, size int) []byte {
	v := r.Resolve(id)
	if len(v) != size {
		panic(fmt.Sprintf("knob: %s holds %d bytes, accessor wants %d", r.table.knobs[id].Name, len(v), size))
	}
	return v
}
