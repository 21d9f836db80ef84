package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tmarstad/confknob/pkg/varlist"
	"github.com/tmarstad/confknob/pkg/varstore"
)

// delCmd represents the del command
var delCmd = &cobra.Command{
	Use:   "del <guid> <name>",
	Short: "Delete a variable from the store",
	Long: `Delete a variable from the selected store backend. Deleting a
variable that does not exist is an error.

Example:
  knobctl del 52d39693-4f64-4ee6-81de-458937727855 BootMode`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closer, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closer()
		return runDel(cmd.OutOrStdout(), s, args[0], args[1])
	},
}

func runDel(out io.Writer, s varstore.Store, guidStr, name string) error {
	guid, err := varlist.ParseGUID(guidStr)
	if err != nil {
		return err
	}
	if err := s.Delete(guid, name); err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted %s from %s\n", name, guid)
	return nil
}

func init() {
	rootCmd.AddCommand(delCmd)
}
