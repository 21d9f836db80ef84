package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarstad/confknob/pkg/varlist"
)

func TestRunFind(t *testing.T) {
	blob := listBlob(t,
		&varlist.Entry{Name: "BootMode", GUID: testNS, Attributes: 7, Data: []byte{0x01}},
		&varlist.Entry{Name: "SerialBaud", GUID: testNS, Attributes: 7, Data: []byte{0x00, 0xc2, 0x01, 0x00}},
	)
	path := filepath.Join(t.TempDir(), "vars.bin")
	require.NoError(t, writeListFile(path, blob))

	t.Run("exact match", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runFind(&out, path, "SerialBaud", false))
		assert.Contains(t, out.String(), "SerialBaud")
		assert.NotContains(t, out.String(), "BootMode")
	})

	t.Run("wrong case without flag", func(t *testing.T) {
		var out bytes.Buffer
		err := runFind(&out, path, "bootmode", false)
		assert.ErrorIs(t, err, varlist.ErrNotFound)
	})

	t.Run("wrong case with flag", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runFind(&out, path, "bootmode", true))
		assert.Contains(t, out.String(), "BootMode")
	})

	t.Run("absent name", func(t *testing.T) {
		var out bytes.Buffer
		err := runFind(&out, path, "NoSuchKnob", false)
		assert.ErrorIs(t, err, varlist.ErrNotFound)
	})
}
