package varstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarstad/confknob/pkg/varlist"
)

func packList(t *testing.T, entries ...*varlist.Entry) []byte {
	t.Helper()
	var buf []byte
	for _, e := range entries {
		b, err := varlist.Encode(e)
		require.NoError(t, err)
		buf = append(buf, b...)
	}
	return buf
}

func TestImportExportRoundTrip(t *testing.T) {
	blob := packList(t,
		&varlist.Entry{Name: "BootMode", GUID: testNS, Attributes: 3, Data: []byte{0x01}},
		&varlist.Entry{Name: "SerialBaud", GUID: testNS, Attributes: 7, Data: []byte{0x00, 0xc2, 0x01, 0x00}},
		&varlist.Entry{Name: "AssetTag", Attributes: 3, Data: []byte("A-1234")},
	)

	s := NewMemStore()
	n, err := ImportList(s, blob)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	v, err := s.Get(testNS, "SerialBaud")
	require.NoError(t, err)
	assert.Equal(t, uint32(7), v.Attributes)
	assert.Equal(t, []byte{0x00, 0xc2, 0x01, 0x00}, v.Data)

	exported, err := ExportList(s)
	require.NoError(t, err)

	entries, err := varlist.DecodeAll(exported)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Export order follows the store's enumeration, so compare as a set.
	byName := make(map[string]*varlist.Entry, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
	}
	assert.Equal(t, []byte{0x01}, byName["BootMode"].Data)
	assert.Equal(t, uint32(3), byName["BootMode"].Attributes)
	assert.Equal(t, testNS, byName["BootMode"].GUID)
	assert.Equal(t, []byte("A-1234"), byName["AssetTag"].Data)
	assert.True(t, byName["AssetTag"].GUID.IsZero())
}

func TestImportList_AllOrNothing(t *testing.T) {
	blob := packList(t,
		&varlist.Entry{Name: "BootMode", GUID: testNS, Data: []byte{0x01}},
	)
	damaged := append([]byte{}, blob...)
	damaged[len(damaged)-1] ^= 0xff

	s := NewMemStore()
	n, err := ImportList(s, damaged)
	assert.ErrorIs(t, err, varlist.ErrCorrupted)
	assert.Zero(t, n)
	assert.Zero(t, s.Len(), "a failed import must write nothing")
}

func TestImportList_Empty(t *testing.T) {
	s := NewMemStore()
	n, err := ImportList(s, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestImportList_LastWriteWins(t *testing.T) {
	blob := packList(t,
		&varlist.Entry{Name: "BootMode", GUID: testNS, Data: []byte{0x01}},
		&varlist.Entry{Name: "BootMode", GUID: testNS, Data: []byte{0x02}},
	)

	s := NewMemStore()
	n, err := ImportList(s, blob)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	v, err := s.Get(testNS, "BootMode")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02}, v.Data)
}

func TestExportList_Empty(t *testing.T) {
	exported, err := ExportList(NewMemStore())
	require.NoError(t, err)
	assert.Empty(t, exported)
}
