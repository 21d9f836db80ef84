package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tmarstad/confknob/pkg/varlist"
)

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "List the records in a variable list file",
	Long: `List every record in a variable list file. Files ending in .zst
are decompressed transparently. A malformed record fails the whole dump
with the offset of the bad record.

Example:
  knobctl dump vars.bin
  knobctl dump --json snapshot.bin.zst`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return runDump(cmd.OutOrStdout(), args[0], asJSON)
	},
}

func runDump(out io.Writer, path string, asJSON bool) error {
	buf, err := readListFile(path)
	if err != nil {
		return err
	}
	entries, err := varlist.DecodeAll(buf)
	if err != nil {
		return err
	}

	if asJSON {
		list := make([]entryJSON, len(entries))
		for i, e := range entries {
			list[i] = toEntryJSON(e)
		}
		data, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n", data)
		return nil
	}

	for _, e := range entries {
		printEntry(out, e)
	}
	fmt.Fprintf(out, "%d records, %d bytes\n", len(entries), len(buf))
	return nil
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().Bool("json", false, "Print records as JSON")
}
