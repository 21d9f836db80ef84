package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/tmarstad/confknob/pkg/varlist"
)

// readListFile reads a variable list blob from path. Files ending in .zst
// are decompressed transparently.
func readListFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !strings.HasSuffix(path, ".zst") {
		return io.ReadAll(f)
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("open zstd stream: %w", err)
	}
	defer dec.Close()
	return io.ReadAll(dec)
}

// writeListFile writes a variable list blob to path, compressing when the
// path ends in .zst.
func writeListFile(path string, data []byte) error {
	if !strings.HasSuffix(path, ".zst") {
		return os.WriteFile(path, data, 0644)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("open zstd stream: %w", err)
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// parseHexBytes decodes a hex payload string. An optional 0x prefix and
// ":" or " " separators are accepted; an empty string is an empty payload.
func parseHexBytes(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	s = strings.NewReplacer(":", "", " ", "").Replace(s)
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("bad hex payload: %w", err)
	}
	return b, nil
}

// printEntry writes one decoded record: a summary line followed by the
// payload as indented hex, 32 bytes per line.
func printEntry(w io.Writer, e *varlist.Entry) {
	fmt.Fprintf(w, "%s  %s  attrs 0x%08x  %d bytes\n", e.Name, e.GUID, e.Attributes, len(e.Data))
	for off := 0; off < len(e.Data); off += 32 {
		end := off + 32
		if end > len(e.Data) {
			end = len(e.Data)
		}
		fmt.Fprintf(w, "  %x\n", e.Data[off:end])
	}
}

// entryJSON is the dump --json shape of one record.
type entryJSON struct {
	Name       string `json:"name"`
	GUID       string `json:"guid"`
	Attributes uint32 `json:"attributes"`
	Size       int    `json:"size"`
	Data       string `json:"data"`
}

func toEntryJSON(e *varlist.Entry) entryJSON {
	return entryJSON{
		Name:       e.Name,
		GUID:       e.GUID.String(),
		Attributes: e.Attributes,
		Size:       len(e.Data),
		Data:       hex.EncodeToString(e.Data),
	}
}
