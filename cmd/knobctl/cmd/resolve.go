package cmd

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/tmarstad/confknob/pkg/knob"
	"github.com/tmarstad/confknob/pkg/profile"
	"github.com/tmarstad/confknob/pkg/varstore"
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve every knob in a profile against the store",
	Long: `Resolve every knob declared in a profile against the selected
store backend and print the effective value of each, marking whether it
came from a store override or from the profile default. An override the
knob's validator rejects counts as the default and is logged.

Example:
  knobctl resolve --profile knobs.yaml
  knobctl resolve --profile knobs.yaml --backend efivarfs`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		profilePath, _ := cmd.Flags().GetString("profile")
		s, closer, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closer()
		logger := log.New(cmd.ErrOrStderr(), "", 0)
		return runResolve(cmd.OutOrStdout(), logger, s, profilePath)
	},
}

func runResolve(out io.Writer, logger *log.Logger, s varstore.Store, profilePath string) error {
	table, err := profile.Load(profilePath)
	if err != nil {
		return err
	}
	r := knob.NewResolver(table, s, logger)

	width := 0
	for _, k := range table.Knobs() {
		if len(k.Name) > width {
			width = len(k.Name)
		}
	}

	for _, k := range table.Knobs() {
		source := "default"
		if ov, err := knob.FetchOverride(s, k.GUID, k.Name, k.Size); err == nil {
			if k.Validator == nil || k.Validator.Validate(ov) {
				source = "override"
			}
		}
		value := r.Resolve(k.ID)
		fmt.Fprintf(out, "%-*s  %s  [%s]\n", width, k.Name, formatKnobValue(value), source)
	}
	return nil
}

// formatKnobValue renders register-sized values as hex plus unsigned
// decimal, and anything else as plain hex bytes.
func formatKnobValue(v []byte) string {
	var u uint64
	switch len(v) {
	case 1:
		u = uint64(v[0])
	case 2:
		u = uint64(binary.LittleEndian.Uint16(v))
	case 4:
		u = uint64(binary.LittleEndian.Uint32(v))
	case 8:
		u = binary.LittleEndian.Uint64(v)
	default:
		return hex.EncodeToString(v)
	}
	return fmt.Sprintf("0x%0*x (%d)", 2*len(v), u, u)
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().String("profile", "", "Profile declaring the knobs to resolve (required)")
	if err := resolveCmd.MarkFlagRequired("profile"); err != nil {
		panic(err)
	}
}
