package varlist

import (
	"fmt"

	"github.com/google/uuid"
)

// GUID is a 128-bit vendor namespace identifier in its wire layout: the
// first three groups are stored little-endian, the remaining eight bytes
// as written in the textual form.
type GUID [16]byte

// ParseGUID parses the canonical textual form
// ("xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx") into the wire layout.
func ParseGUID(s string) (GUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return GUID{}, fmt.Errorf("parse guid %q: %w", s, err)
	}
	return guidFromUUID(u), nil
}

// MustParseGUID is like ParseGUID but panics on malformed input. Intended
// for compiled-in namespace constants.
func MustParseGUID(s string) GUID {
	g, err := ParseGUID(s)
	if err != nil {
		panic(err)
	}
	return g
}

// String renders the GUID in canonical textual form.
func (g GUID) String() string {
	return g.toUUID().String()
}

// IsZero reports whether every byte of the GUID is zero.
func (g GUID) IsZero() bool {
	return g == GUID{}
}

func guidFromUUID(u uuid.UUID) GUID {
	var g GUID
	g[0], g[1], g[2], g[3] = u[3], u[2], u[1], u[0]
	g[4], g[5] = u[5], u[4]
	g[6], g[7] = u[7], u[6]
	copy(g[8:], u[8:])
	return g
}

func (g GUID) toUUID() uuid.UUID {
	var u uuid.UUID
	u[0], u[1], u[2], u[3] = g[3], g[2], g[1], g[0]
	u[4], u[5] = g[5], g[4]
	u[6], u[7] = g[7], g[6]
	copy(u[8:], g[8:])
	return u
}
