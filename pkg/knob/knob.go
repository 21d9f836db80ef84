// Package knob resolves configuration knobs: named, typed settings whose
// values come from a variable store override when a usable one exists,
// and from the compiled-in profile default otherwise.
package knob

import (
	"fmt"
	"unicode/utf16"

	"github.com/tmarstad/confknob/pkg/varlist"
)

// MaxNameLen is the longest knob name a Table accepts, in UTF-16 code
// units. Knob names double as variable names, and the firmware side sizes
// its name buffers to this.
const MaxNameLen = 64

// ID indexes a knob within its Table. IDs are dense: a table of N knobs
// uses exactly 0 through N-1.
type ID int

// Knob is the immutable metadata of one configuration knob.
type Knob struct {
	ID         ID           // Position in the table
	Name       string       // Override lookup name
	GUID       varlist.GUID // Vendor namespace of the override variable
	Attributes uint32       // Attribute word for override writes
	Size       int          // Exact payload size in bytes
	Default    []byte       // Fallback value, len(Default) == Size
	Validator  Validator    // Optional value check, nil accepts anything
}

// Table is an immutable, densely indexed set of knobs.
type Table struct {
	knobs  []Knob
	byName map[string]ID
}

// NewTable builds a Table, checking that IDs are dense and in order, names
// are unique and within MaxNameLen, and every default matches its declared
// size.
func NewTable(knobs []Knob) (*Table, error) {
	t := &Table{
		knobs:  make([]Knob, len(knobs)),
		byName: make(map[string]ID, len(knobs)),
	}
	for i, k := range knobs {
		if k.ID != ID(i) {
			return nil, fmt.Errorf("knob %q has id %d at position %d, ids must be dense and ordered", k.Name, k.ID, i)
		}
		if k.Name == "" {
			return nil, fmt.Errorf("knob at position %d has an empty name", i)
		}
		if n := len(utf16.Encode([]rune(k.Name))); n > MaxNameLen {
			return nil, fmt.Errorf("knob %q name is %d UTF-16 units, limit %d", k.Name, n, MaxNameLen)
		}
		if _, dup := t.byName[k.Name]; dup {
			return nil, fmt.Errorf("duplicate knob name %q", k.Name)
		}
		if k.Size <= 0 {
			return nil, fmt.Errorf("knob %q has size %d", k.Name, k.Size)
		}
		if len(k.Default) != k.Size {
			return nil, fmt.Errorf("knob %q default is %d bytes, declared size is %d", k.Name, len(k.Default), k.Size)
		}
		k.Default = append([]byte(nil), k.Default...)
		t.knobs[i] = k
		t.byName[k.Name] = k.ID
	}
	return t, nil
}

// Len returns the number of knobs in the table.
func (t *Table) Len() int {
	return len(t.knobs)
}

// Get returns the knob with the given id.
func (t *Table) Get(id ID) (Knob, bool) {
	if id < 0 || int(id) >= len(t.knobs) {
		return Knob{}, false
	}
	return t.knobs[id], true
}

// Lookup returns the knob with the given name.
func (t *Table) Lookup(name string) (Knob, bool) {
	id, ok := t.byName[name]
	if !ok {
		return Knob{}, false
	}
	return t.knobs[id], true
}

// Knobs returns the knobs in id order. The slice is shared; callers must
// not modify it.
func (t *Table) Knobs() []Knob {
	return t.knobs
}
