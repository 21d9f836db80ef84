package knob

import (
	"bytes"
	"encoding/binary"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarstad/confknob/pkg/varstore"
)

func leU32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func testTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable([]Knob{
		{ID: 0, Name: "BootMode", GUID: testNS, Attributes: varstore.AttrDefault, Size: 1, Default: []byte{0x01}, Validator: OneOfUint(0, 1, 2)},
		{ID: 1, Name: "SerialBaud", GUID: testNS, Attributes: varstore.AttrDefault, Size: 4, Default: leU32(115200)},
		{ID: 2, Name: "DebugEnable", GUID: testNS, Attributes: varstore.AttrDefault, Size: 1, Default: []byte{0x00}, Validator: BoolStrict()},
	})
	require.NoError(t, err)
	return table
}

func TestFetchOverride(t *testing.T) {
	s := varstore.NewMemStore()
	require.NoError(t, s.Set(testNS, "BootMode", varstore.Variable{Data: []byte{0x02}}))
	require.NoError(t, s.Set(testNS, "SerialBaud", varstore.Variable{Data: []byte{0x01, 0x02}}))

	t.Run("exact size accepted", func(t *testing.T) {
		v, err := FetchOverride(s, testNS, "BootMode", 1)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x02}, v)
	})

	t.Run("size mismatch reads as no override", func(t *testing.T) {
		_, err := FetchOverride(s, testNS, "SerialBaud", 4)
		assert.ErrorIs(t, err, ErrNoOverride)
	})

	t.Run("absent reads as no override", func(t *testing.T) {
		_, err := FetchOverride(s, testNS, "Missing", 1)
		assert.ErrorIs(t, err, ErrNoOverride)
	})
}

func TestResolver_Resolve(t *testing.T) {
	t.Run("default when no override", func(t *testing.T) {
		r := NewResolver(testTable(t), varstore.NewMemStore(), nil)
		assert.Equal(t, []byte{0x01}, r.Resolve(0))
		assert.Equal(t, leU32(115200), r.Resolve(1))
	})

	t.Run("override wins when usable", func(t *testing.T) {
		s := varstore.NewMemStore()
		require.NoError(t, s.Set(testNS, "BootMode", varstore.Variable{Data: []byte{0x02}}))

		r := NewResolver(testTable(t), s, nil)
		assert.Equal(t, []byte{0x02}, r.Resolve(0))
	})

	t.Run("size mismatch falls back to default", func(t *testing.T) {
		s := varstore.NewMemStore()
		require.NoError(t, s.Set(testNS, "SerialBaud", varstore.Variable{Data: []byte{0x01, 0x02}}))

		r := NewResolver(testTable(t), s, nil)
		assert.Equal(t, leU32(115200), r.Resolve(1))
	})

	t.Run("refetches on every call", func(t *testing.T) {
		s := varstore.NewMemStore()
		r := NewResolver(testTable(t), s, nil)

		assert.Equal(t, []byte{0x01}, r.Resolve(0))

		require.NoError(t, s.Set(testNS, "BootMode", varstore.Variable{Data: []byte{0x02}}))
		assert.Equal(t, []byte{0x02}, r.Resolve(0))

		require.NoError(t, s.Delete(testNS, "BootMode"))
		assert.Equal(t, []byte{0x01}, r.Resolve(0))
	})

	t.Run("slot keeps its backing array", func(t *testing.T) {
		s := varstore.NewMemStore()
		r := NewResolver(testTable(t), s, nil)

		first := r.Resolve(0)
		require.NoError(t, s.Set(testNS, "BootMode", varstore.Variable{Data: []byte{0x02}}))
		second := r.Resolve(0)

		assert.Same(t, &first[0], &second[0])
		assert.Equal(t, []byte{0x02}, first, "the slot is overwritten in place")
	})

	t.Run("panics on unknown id", func(t *testing.T) {
		r := NewResolver(testTable(t), varstore.NewMemStore(), nil)
		assert.Panics(t, func() { r.Resolve(3) })
		assert.Panics(t, func() { r.Resolve(-1) })
	})
}

func TestResolver_ValidatorFallback(t *testing.T) {
	t.Run("rejected override logs and uses default", func(t *testing.T) {
		s := varstore.NewMemStore()
		require.NoError(t, s.Set(testNS, "BootMode", varstore.Variable{Data: []byte{0x09}}))

		var logged bytes.Buffer
		r := NewResolver(testTable(t), s, log.New(&logged, "", 0))

		assert.Equal(t, []byte{0x01}, r.Resolve(0), "resolution still succeeds")
		assert.Contains(t, logged.String(), "BootMode")
		assert.Contains(t, logged.String(), "rejected by validator")
	})

	t.Run("accepted override is not logged", func(t *testing.T) {
		s := varstore.NewMemStore()
		require.NoError(t, s.Set(testNS, "DebugEnable", varstore.Variable{Data: []byte{0x01}}))

		var logged bytes.Buffer
		r := NewResolver(testTable(t), s, log.New(&logged, "", 0))

		assert.Equal(t, []byte{0x01}, r.Resolve(2))
		assert.Empty(t, logged.String())
	})

	t.Run("validator sees the default too", func(t *testing.T) {
		// A default outside its own validator's range is a table author
		// bug; resolution still terminates with the default.
		table, err := NewTable([]Knob{
			{ID: 0, Name: "Odd", GUID: testNS, Size: 1, Default: []byte{0x09}, Validator: OneOfUint(0, 1)},
		})
		require.NoError(t, err)

		var logged bytes.Buffer
		r := NewResolver(table, varstore.NewMemStore(), log.New(&logged, "", 0))

		assert.Equal(t, []byte{0x09}, r.Resolve(0))
		assert.Contains(t, logged.String(), "rejected by validator")
	})
}

func TestResolver_TypedAccessors(t *testing.T) {
	table, err := NewTable([]Knob{
		{ID: 0, Name: "Flag", GUID: testNS, Size: 1, Default: []byte{0x01}},
		{ID: 1, Name: "Count", GUID: testNS, Size: 2, Default: []byte{0x39, 0x05}},
		{ID: 2, Name: "Baud", GUID: testNS, Size: 4, Default: leU32(115200)},
		{ID: 3, Name: "Serial", GUID: testNS, Size: 8, Default: []byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x80}},
		{ID: 4, Name: "TrimDB", GUID: testNS, Size: 2, Default: []byte{0xf6, 0xff}},
		{ID: 5, Name: "Blob", GUID: testNS, Size: 3, Default: []byte{0x0a, 0x0b, 0x0c}},
	})
	require.NoError(t, err)
	r := NewResolver(table, varstore.NewMemStore(), nil)

	assert.True(t, r.Bool(0))
	assert.Equal(t, uint8(0x01), r.Uint8(0))
	assert.Equal(t, uint16(1337), r.Uint16(1))
	assert.Equal(t, uint32(115200), r.Uint32(2))
	assert.Equal(t, uint64(0x8000000000000001), r.Uint64(3))
	assert.Equal(t, int16(-10), r.Int16(4))
	assert.Equal(t, int8(1), r.Int8(0))

	t.Run("bytes returns a private copy", func(t *testing.T) {
		b := r.Bytes(5)
		assert.Equal(t, []byte{0x0a, 0x0b, 0x0c}, b)
		b[0] = 0xff
		assert.Equal(t, []byte{0x0a, 0x0b, 0x0c}, r.Resolve(5))
	})

	t.Run("panics on width mismatch", func(t *testing.T) {
		assert.Panics(t, func() { r.Uint32(0) })
		assert.Panics(t, func() { r.Bool(2) })
		assert.Panics(t, func() { r.Int64(1) })
	})
}
