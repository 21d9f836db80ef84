package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarstad/confknob/pkg/varlist"
	"github.com/tmarstad/confknob/pkg/varstore"
)

const sampleManifest = `
namespace: 52d39693-4f64-4ee6-81de-458937727855
entries:
  - name: BootMode
    data: "01"
  - name: Magic
    guid: 11111111-2222-3333-4455-667788990011
    attributes: 0x3
    data: 0xdeadbeef
  - name: Empty
    data: ""
`

func TestRunPack(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "vars.yaml")
	outPath := filepath.Join(dir, "vars.bin")
	require.NoError(t, os.WriteFile(manifestPath, []byte(sampleManifest), 0600))

	var out bytes.Buffer
	require.NoError(t, runPack(&out, manifestPath, outPath))
	assert.Contains(t, out.String(), "Packed 3 records")

	blob, err := readListFile(outPath)
	require.NoError(t, err)
	entries, err := varlist.DecodeAll(blob)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "BootMode", entries[0].Name)
	assert.Equal(t, testNS, entries[0].GUID)
	assert.Equal(t, uint32(varstore.AttrDefault), entries[0].Attributes)
	assert.Equal(t, []byte{0x01}, entries[0].Data)

	assert.Equal(t, "Magic", entries[1].Name)
	assert.Equal(t, varlist.MustParseGUID("11111111-2222-3333-4455-667788990011"), entries[1].GUID)
	assert.Equal(t, uint32(3), entries[1].Attributes)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, entries[1].Data)

	assert.Equal(t, "Empty", entries[2].Name)
	assert.Empty(t, entries[2].Data)
}

func TestRunPackZstd(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "vars.yaml")
	outPath := filepath.Join(dir, "vars.bin.zst")
	require.NoError(t, os.WriteFile(manifestPath, []byte(sampleManifest), 0600))

	var out bytes.Buffer
	require.NoError(t, runPack(&out, manifestPath, outPath))

	blob, err := readListFile(outPath)
	require.NoError(t, err)
	entries, err := varlist.DecodeAll(blob)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestRunPackErrors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		wantErr  string
	}{
		{
			name:     "no entries",
			manifest: "namespace: 52d39693-4f64-4ee6-81de-458937727855\n",
			wantErr:  "declares no entries",
		},
		{
			name:     "bad namespace",
			manifest: "namespace: not-a-guid\nentries:\n  - name: A\n    data: \"01\"\n",
			wantErr:  "manifest namespace",
		},
		{
			name:     "missing name",
			manifest: "namespace: 52d39693-4f64-4ee6-81de-458937727855\nentries:\n  - data: \"01\"\n",
			wantErr:  "missing name",
		},
		{
			name:     "no guid and no namespace",
			manifest: "entries:\n  - name: A\n    data: \"01\"\n",
			wantErr:  "declares no namespace",
		},
		{
			name:     "bad hex payload",
			manifest: "namespace: 52d39693-4f64-4ee6-81de-458937727855\nentries:\n  - name: A\n    data: zz\n",
			wantErr:  "bad hex payload",
		},
		{
			name:     "bad attributes",
			manifest: "namespace: 52d39693-4f64-4ee6-81de-458937727855\nentries:\n  - name: A\n    attributes: lots\n    data: \"01\"\n",
			wantErr:  "attributes",
		},
		{
			name:     "unknown field",
			manifest: "namespace: 52d39693-4f64-4ee6-81de-458937727855\nentries:\n  - name: A\n    dtaa: \"01\"\n",
			wantErr:  "failed to parse manifest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			manifestPath := filepath.Join(dir, "vars.yaml")
			require.NoError(t, os.WriteFile(manifestPath, []byte(tt.manifest), 0600))

			var out bytes.Buffer
			err := runPack(&out, manifestPath, filepath.Join(dir, "out.bin"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
