package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tmarstad/confknob/pkg/varlist"
	"github.com/tmarstad/confknob/pkg/varstore"
)

// setCmd represents the set command
var setCmd = &cobra.Command{
	Use:   "set <guid> <name> <hexdata>",
	Short: "Write a variable to the store",
	Long: `Write a variable to the selected store backend. The payload is
hex; an optional 0x prefix and ":" separators are accepted, and an empty
string writes an empty payload.

Example:
  knobctl set 52d39693-4f64-4ee6-81de-458937727855 BootMode 01
  knobctl set --attributes 0x3 52d39693-4f64-4ee6-81de-458937727855 SerialBaud 00c20100`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		attrs, _ := cmd.Flags().GetUint32("attributes")
		s, closer, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closer()
		return runSet(cmd.OutOrStdout(), s, args[0], args[1], args[2], attrs)
	},
}

func runSet(out io.Writer, s varstore.Store, guidStr, name, hexData string, attrs uint32) error {
	guid, err := varlist.ParseGUID(guidStr)
	if err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("empty variable name")
	}
	data, err := parseHexBytes(hexData)
	if err != nil {
		return err
	}
	if err := s.Set(guid, name, varstore.Variable{Attributes: attrs, Data: data}); err != nil {
		return err
	}
	fmt.Fprintf(out, "Set %s in %s (%d bytes)\n", name, guid, len(data))
	return nil
}

func init() {
	rootCmd.AddCommand(setCmd)
	setCmd.Flags().Uint32("attributes", varstore.AttrDefault, "Attribute word for the variable")
}
