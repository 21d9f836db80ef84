package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/tmarstad/confknob/pkg/varlist"
	"github.com/tmarstad/confknob/pkg/varstore"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <guid> <name>",
	Short: "Read a variable from the store",
	Long: `Read a variable from the selected store backend and print its
attributes and payload.

Example:
  knobctl get 52d39693-4f64-4ee6-81de-458937727855 BootMode
  knobctl get --backend efivarfs 52d39693-4f64-4ee6-81de-458937727855 BootMode`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closer, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closer()
		return runGet(cmd.OutOrStdout(), s, args[0], args[1])
	},
}

func runGet(out io.Writer, s varstore.Store, guidStr, name string) error {
	guid, err := varlist.ParseGUID(guidStr)
	if err != nil {
		return err
	}
	v, err := s.Get(guid, name)
	if err != nil {
		return err
	}
	printEntry(out, &varlist.Entry{Name: name, GUID: guid, Attributes: v.Attributes, Data: v.Data})
	return nil
}

func init() {
	rootCmd.AddCommand(getCmd)
}
