package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tmarstad/confknob/pkg/varstore"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the store into a variable list file",
	Long: `Export every variable in the selected store backend into a
variable list file, in the store's enumeration order. An output path
ending in .zst is compressed transparently.

Example:
  knobctl export vars.bin
  knobctl export snapshot.bin.zst`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closer, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closer()
		return runExport(cmd.OutOrStdout(), s, args[0])
	},
}

func runExport(out io.Writer, s varstore.Store, path string) error {
	buf, err := varstore.ExportList(s)
	if err != nil {
		return err
	}
	if err := writeListFile(path, buf); err != nil {
		return err
	}
	fmt.Fprintf(out, "Exported %d bytes to %s\n", len(buf), path)
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
