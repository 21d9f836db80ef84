package varstore

import (
	"bytes"
	"sort"
	"sync"

	"github.com/tmarstad/confknob/pkg/varlist"
)

// MemStore is an in-memory Store for tests and the service emulator.
type MemStore struct {
	mu   sync.RWMutex
	vars map[Key]Variable
}

func NewMemStore() *MemStore {
	return &MemStore{vars: make(map[Key]Variable)}
}

func (s *MemStore) Get(guid varlist.GUID, name string) (Variable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vars[Key{GUID: guid, Name: name}]
	if !ok {
		return Variable{}, ErrNotFound
	}
	return Variable{Attributes: v.Attributes, Data: append([]byte(nil), v.Data...)}, nil
}

func (s *MemStore) Set(guid varlist.GUID, name string, v Variable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vars[Key{GUID: guid, Name: name}] = Variable{
		Attributes: v.Attributes,
		Data:       append([]byte(nil), v.Data...),
	}
	return nil
}

func (s *MemStore) Delete(guid varlist.GUID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := Key{GUID: guid, Name: name}
	if _, ok := s.vars[k]; !ok {
		return ErrNotFound
	}
	delete(s.vars, k)
	return nil
}

// List returns every key, ordered by GUID then name.
func (s *MemStore) List() ([]Key, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]Key, 0, len(s.vars))
	for k := range s.vars {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if c := bytes.Compare(keys[i].GUID[:], keys[j].GUID[:]); c != 0 {
			return c < 0
		}
		return keys[i].Name < keys[j].Name
	})
	return keys, nil
}

// Len returns the number of stored variables.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vars)
}
