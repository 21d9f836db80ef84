// Package varstore provides the variable store the knob resolver reads
// overrides from, with in-memory, efivarfs and pebble backends, plus
// import/export bridging to the variable list wire format.
package varstore

import (
	"github.com/tmarstad/confknob/pkg/varlist"
)

// Variable attribute bits, matching the platform's variable services.
const (
	AttrNonVolatile       = 0x00000001
	AttrBootServiceAccess = 0x00000002
	AttrRuntimeAccess     = 0x00000004
	AttrHardwareError     = 0x00000008
	AttrAuthWrite         = 0x00000010
	AttrTimeBasedAuth     = 0x00000020
	AttrAppendWrite       = 0x00000040
	AttrEnhancedAuth      = 0x00000080
)

// AttrDefault is the attribute word for ordinary persistent variables.
const AttrDefault = AttrNonVolatile | AttrBootServiceAccess | AttrRuntimeAccess

// Variable is one stored variable: an attribute word and a payload.
type Variable struct {
	Attributes uint32
	Data       []byte
}

// Key identifies a variable by namespace and name.
type Key struct {
	GUID varlist.GUID
	Name string
}

// Store reads and writes GUID-scoped named variables.
type Store interface {
	// Get returns the variable, or ErrNotFound.
	Get(guid varlist.GUID, name string) (Variable, error)
	// Set creates or replaces the variable.
	Set(guid varlist.GUID, name string, v Variable) error
	// Delete removes the variable. Deleting an absent variable returns
	// ErrNotFound.
	Delete(guid varlist.GUID, name string) error
}

// Lister is implemented by stores that can enumerate their variables in a
// stable order.
type Lister interface {
	List() ([]Key, error)
}

// Errors
var (
	ErrNotFound = &StoreError{"variable not found"}
)

// StoreError represents a variable store error
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}
