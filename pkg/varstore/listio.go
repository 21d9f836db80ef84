package varstore

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/tmarstad/confknob/pkg/varlist"
)

// ImportList decodes every record in buf and writes it into s, returning
// the number of variables written. The scan is all-or-nothing: a malformed
// buffer imports nothing.
func ImportList(s Store, buf []byte) (int, error) {
	entries, err := varlist.DecodeAll(buf)
	if err != nil {
		return 0, err
	}
	for i, e := range entries {
		v := Variable{Attributes: e.Attributes, Data: e.Data}
		if err := s.Set(e.GUID, e.Name, v); err != nil {
			return i, errors.Wrapf(err, "import %q", e.Name)
		}
	}
	return len(entries), nil
}

// ExportList serializes every variable in s into a variable list blob, in
// the store's enumeration order. The store must implement Lister.
func ExportList(s Store) ([]byte, error) {
	l, ok := s.(Lister)
	if !ok {
		return nil, errors.New("store cannot enumerate variables")
	}
	keys, err := l.List()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := varlist.NewWriter(&buf)
	for _, k := range keys {
		v, err := s.Get(k.GUID, k.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "export %q", k.Name)
		}
		e := &varlist.Entry{Name: k.Name, GUID: k.GUID, Attributes: v.Attributes, Data: v.Data}
		if _, err := w.Write(e); err != nil {
			return nil, errors.Wrapf(err, "encode %q", k.Name)
		}
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
