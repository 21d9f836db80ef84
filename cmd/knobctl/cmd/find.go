package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/tmarstad/confknob/pkg/varlist"
)

// findCmd represents the find command
var findCmd = &cobra.Command{
	Use:   "find <file> <name>",
	Short: "Find a variable by name in a variable list file",
	Long: `Find the first record with the given name in a variable list
file, scanning in buffer order.

Example:
  knobctl find vars.bin BootMode
  knobctl find --ignore-case vars.bin bootmode`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ignoreCase, _ := cmd.Flags().GetBool("ignore-case")
		return runFind(cmd.OutOrStdout(), args[0], args[1], ignoreCase)
	},
}

func runFind(out io.Writer, path, name string, ignoreCase bool) error {
	buf, err := readListFile(path)
	if err != nil {
		return err
	}
	c := varlist.CaseSensitive
	if ignoreCase {
		c = varlist.CaseFold
	}
	e, err := varlist.Find(buf, name, c)
	if err != nil {
		return err
	}
	printEntry(out, e)
	return nil
}

func init() {
	rootCmd.AddCommand(findCmd)
	findCmd.Flags().BoolP("ignore-case", "i", false, "Match names case-insensitively")
}
