package varstore

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/tmarstad/confknob/pkg/varlist"
)

// DefaultEfiVarDir is where the Linux kernel exposes firmware variables.
const DefaultEfiVarDir = "/sys/firmware/efi/efivars"

// EfiVarFS stores variables as efivarfs files. Each variable lives in
// "<Name>-<guid>" and its file content is a 4-byte little-endian attribute
// word followed by the payload. Variable names may themselves contain
// dashes; the GUID is always the last five dash-separated groups.
type EfiVarFS struct {
	dir string
}

// NewEfiVarFS returns a store rooted at dir. An empty dir selects the
// system efivarfs mount.
func NewEfiVarFS(dir string) *EfiVarFS {
	if dir == "" {
		dir = DefaultEfiVarDir
	}
	return &EfiVarFS{dir: dir}
}

func (s *EfiVarFS) path(guid varlist.GUID, name string) string {
	return filepath.Join(s.dir, name+"-"+guid.String())
}

func (s *EfiVarFS) Get(guid varlist.GUID, name string) (Variable, error) {
	raw, err := os.ReadFile(s.path(guid, name))
	if err != nil {
		if os.IsNotExist(err) {
			return Variable{}, ErrNotFound
		}
		return Variable{}, errors.Wrapf(err, "read variable %q", name)
	}
	if len(raw) < 4 {
		return Variable{}, errors.Errorf("variable file for %q holds %d bytes, shorter than the attribute word", name, len(raw))
	}
	return Variable{
		Attributes: binary.LittleEndian.Uint32(raw[:4]),
		Data:       raw[4:],
	}, nil
}

func (s *EfiVarFS) Set(guid varlist.GUID, name string, v Variable) error {
	buf := make([]byte, 4+len(v.Data))
	binary.LittleEndian.PutUint32(buf, v.Attributes)
	copy(buf[4:], v.Data)
	if err := os.WriteFile(s.path(guid, name), buf, 0644); err != nil {
		return errors.Wrapf(err, "write variable %q", name)
	}
	return nil
}

func (s *EfiVarFS) Delete(guid varlist.GUID, name string) error {
	err := os.Remove(s.path(guid, name))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return errors.Wrapf(err, "delete variable %q", name)
	}
	return nil
}

// List enumerates the directory, in filename order. Files whose names do
// not end in a parseable GUID are not variables and are skipped.
func (s *EfiVarFS) List() ([]Key, error) {
	dirents, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrapf(err, "list %q", s.dir)
	}

	var keys []Key
	for _, d := range dirents {
		if d.IsDir() {
			continue
		}
		name, guid, ok := splitVarFileName(d.Name())
		if !ok {
			continue
		}
		keys = append(keys, Key{GUID: guid, Name: name})
	}
	return keys, nil
}

func splitVarFileName(file string) (name string, guid varlist.GUID, ok bool) {
	parts := strings.Split(file, "-")
	if len(parts) < 6 {
		return "", varlist.GUID{}, false
	}
	guid, err := varlist.ParseGUID(strings.Join(parts[len(parts)-5:], "-"))
	if err != nil {
		return "", varlist.GUID{}, false
	}
	name = strings.Join(parts[:len(parts)-5], "-")
	if name == "" {
		return "", varlist.GUID{}, false
	}
	return name, guid, true
}
