package varlist

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// Case selects how name lookups compare variable names.
type Case int

const (
	// CaseSensitive matches names exactly.
	CaseSensitive Case = iota
	// CaseFold matches names under Unicode simple case folding.
	CaseFold
)

// DecodeAll decodes every record in buf, in buffer order. Records must be
// tightly concatenated and the last must end exactly at len(buf). Any
// malformed record fails the whole scan; a scan never returns partial
// results. An empty buffer yields no entries and no error.
func DecodeAll(buf []byte) ([]*Entry, error) {
	var entries []*Entry
	for off := 0; off < len(buf); {
		e, n, err := Decode(buf[off:])
		if err != nil {
			return nil, fmt.Errorf("record at offset %d: %w", off, err)
		}
		entries = append(entries, e)
		off += n
	}
	return entries, nil
}

// Find returns the first entry in buf whose name matches name, scanning in
// buffer order. The scan stops at the match, so damage past it goes
// unnoticed; a decode failure before any match fails the lookup as in
// DecodeAll. It returns ErrNotFound when every record decodes cleanly and
// none matches.
func Find(buf []byte, name string, c Case) (*Entry, error) {
	for off := 0; off < len(buf); {
		e, n, err := Decode(buf[off:])
		if err != nil {
			return nil, fmt.Errorf("record at offset %d: %w", off, err)
		}
		if matchName(e.Name, name, c) {
			return e, nil
		}
		off += n
	}
	return nil, fmt.Errorf("no variable named %q: %w", name, ErrNotFound)
}

// FindUTF16 is Find for callers holding the name as UTF-16 code units,
// with or without a trailing NUL terminator.
func FindUTF16(buf []byte, name []uint16, c Case) (*Entry, error) {
	if len(name) > 0 && name[len(name)-1] == 0 {
		name = name[:len(name)-1]
	}
	return Find(buf, string(utf16.Decode(name)), c)
}

func matchName(a, b string, c Case) bool {
	if c == CaseFold {
		return strings.EqualFold(a, b)
	}
	return a == b
}
