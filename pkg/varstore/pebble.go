package varstore

import (
	"encoding/binary"

	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"

	"github.com/tmarstad/confknob/pkg/varlist"
)

// PebbleStore persists variables in a pebble database. Keys are the 16
// GUID bytes followed by the name; values are the 4-byte little-endian
// attribute word followed by the payload.
type PebbleStore struct {
	db *pebble.DB
}

func NewPebbleStore(path string) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &PebbleStore{db: db}, nil
}

func pebbleKey(guid varlist.GUID, name string) []byte {
	return append(append([]byte{}, guid[:]...), name...)
}

func (s *PebbleStore) Get(guid varlist.GUID, name string) (Variable, error) {
	raw, closer, err := s.db.Get(pebbleKey(guid, name))
	if err == pebble.ErrNotFound {
		return Variable{}, ErrNotFound
	}
	if err != nil {
		return Variable{}, err
	}
	defer closer.Close()

	if len(raw) < 4 {
		return Variable{}, errors.Errorf("stored value for %q holds %d bytes, shorter than the attribute word", name, len(raw))
	}
	return Variable{
		Attributes: binary.LittleEndian.Uint32(raw[:4]),
		Data:       append([]byte(nil), raw[4:]...),
	}, nil
}

func (s *PebbleStore) Set(guid varlist.GUID, name string, v Variable) error {
	buf := make([]byte, 4+len(v.Data))
	binary.LittleEndian.PutUint32(buf, v.Attributes)
	copy(buf[4:], v.Data)
	return s.db.Set(pebbleKey(guid, name), buf, pebble.Sync)
}

func (s *PebbleStore) Delete(guid varlist.GUID, name string) error {
	key := pebbleKey(guid, name)
	if _, closer, err := s.db.Get(key); err == pebble.ErrNotFound {
		return ErrNotFound
	} else if err != nil {
		return err
	} else {
		closer.Close()
	}
	return s.db.Delete(key, pebble.Sync)
}

// List enumerates every variable in key order.
func (s *PebbleStore) List() ([]Key, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var keys []Key
	for iter.First(); iter.Valid(); iter.Next() {
		raw := iter.Key()
		if len(raw) <= 16 {
			continue
		}
		var k Key
		copy(k.GUID[:], raw[:16])
		k.Name = string(raw[16:])
		keys = append(keys, k)
	}
	return keys, iter.Error()
}

func (s *PebbleStore) Close() error {
	return s.db.Close()
}
