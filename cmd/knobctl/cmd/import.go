package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tmarstad/confknob/pkg/varstore"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a variable list file into the store",
	Long: `Import every record of a variable list file into the selected
store backend. The import is all-or-nothing: a malformed file writes
nothing. Files ending in .zst are decompressed transparently.

Example:
  knobctl import vars.bin
  knobctl import snapshot.bin.zst`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closer, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closer()
		return runImport(cmd.OutOrStdout(), s, args[0])
	},
}

func runImport(out io.Writer, s varstore.Store, path string) error {
	buf, err := readListFile(path)
	if err != nil {
		return err
	}
	n, err := varstore.ImportList(s, buf)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Imported %d variables from %s\n", n, path)
	return nil
}

func init() {
	rootCmd.AddCommand(importCmd)
}
