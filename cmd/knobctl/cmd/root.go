/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tmarstad/confknob/pkg/api"
	"github.com/tmarstad/confknob/pkg/varstore"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "knobctl",
	Short: "knobctl - firmware configuration knob tooling",
	Long: `knobctl inspects and edits firmware variable lists and the
variable stores behind them, resolves configuration knobs against a
profile, and runs a local variable service for development.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Store selection, shared by every command that touches a backend
	rootCmd.PersistentFlags().String("backend", "pebble", "Variable store backend (memory, pebble or efivarfs)")
	rootCmd.PersistentFlags().StringP("pebble-dir", "d", "./data", "Data directory for the pebble backend")
	rootCmd.PersistentFlags().String("efivar-dir", varstore.DefaultEfiVarDir, "Mount point for the efivarfs backend")
}

// openStore opens the variable store selected by the persistent backend
// flags. The returned closer must be called when the command is done.
func openStore(cmd *cobra.Command) (varstore.Store, func() error, error) {
	backend, _ := cmd.Flags().GetString("backend")
	pebbleDir, _ := cmd.Flags().GetString("pebble-dir")
	efiVarDir, _ := cmd.Flags().GetString("efivar-dir")

	return api.OpenStore(api.ServerConfig{
		Backend:   backend,
		PebbleDir: pebbleDir,
		EfiVarDir: efiVarDir,
	})
}
