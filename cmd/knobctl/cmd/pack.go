package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tmarstad/confknob/pkg/varlist"
	"github.com/tmarstad/confknob/pkg/varstore"
)

// packCmd represents the pack command
var packCmd = &cobra.Command{
	Use:   "pack <manifest> <out>",
	Short: "Build a variable list file from a YAML manifest",
	Long: `Build a variable list file from a YAML manifest. Each entry
names a variable and its hex payload; the guid falls back to the
manifest namespace and attributes default to NV+BS+RT. An output path
ending in .zst is compressed transparently.

Manifest:
  namespace: 52d39693-4f64-4ee6-81de-458937727855
  entries:
    - name: BootMode
      data: "01"
    - name: Magic
      guid: 11111111-2222-3333-4455-667788990011
      attributes: 0x3
      data: 0xdeadbeef

Example:
  knobctl pack vars.yaml vars.bin`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPack(cmd.OutOrStdout(), args[0], args[1])
	},
}

type packManifest struct {
	Namespace string      `yaml:"namespace"`
	Entries   []packEntry `yaml:"entries"`
}

type packEntry struct {
	Name       string    `yaml:"name"`
	GUID       string    `yaml:"guid"`
	Attributes yaml.Node `yaml:"attributes"`
	Data       string    `yaml:"data"`
}

func runPack(out io.Writer, manifestPath, outPath string) error {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}

	var m packManifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return fmt.Errorf("failed to parse manifest: %w", err)
	}
	if len(m.Entries) == 0 {
		return fmt.Errorf("manifest declares no entries")
	}

	var namespace varlist.GUID
	haveNamespace := false
	if m.Namespace != "" {
		namespace, err = varlist.ParseGUID(m.Namespace)
		if err != nil {
			return fmt.Errorf("manifest namespace: %w", err)
		}
		haveNamespace = true
	}

	var buf bytes.Buffer
	w := varlist.NewWriter(&buf)
	for i, pe := range m.Entries {
		e, err := pe.build(namespace, haveNamespace)
		if err != nil {
			return fmt.Errorf("entry %d (%s): %w", i, pe.Name, err)
		}
		if _, err := w.Write(e); err != nil {
			return fmt.Errorf("entry %d (%s): %w", i, pe.Name, err)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if err := writeListFile(outPath, buf.Bytes()); err != nil {
		return err
	}
	fmt.Fprintf(out, "Packed %d records (%d bytes) into %s\n", len(m.Entries), buf.Len(), outPath)
	return nil
}

func (pe packEntry) build(namespace varlist.GUID, haveNamespace bool) (*varlist.Entry, error) {
	if pe.Name == "" {
		return nil, fmt.Errorf("missing name")
	}

	guid := namespace
	if pe.GUID != "" {
		g, err := varlist.ParseGUID(pe.GUID)
		if err != nil {
			return nil, err
		}
		guid = g
	} else if !haveNamespace {
		return nil, fmt.Errorf("no guid and the manifest declares no namespace")
	}

	attrs := uint32(varstore.AttrDefault)
	if !pe.Attributes.IsZero() {
		if pe.Attributes.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("attributes must be a scalar")
		}
		v, err := strconv.ParseUint(pe.Attributes.Value, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("attributes %q: %w", pe.Attributes.Value, err)
		}
		attrs = uint32(v)
	}

	payload, err := parseHexBytes(pe.Data)
	if err != nil {
		return nil, err
	}

	return &varlist.Entry{Name: pe.Name, GUID: guid, Attributes: attrs, Data: payload}, nil
}

func init() {
	rootCmd.AddCommand(packCmd)
}
