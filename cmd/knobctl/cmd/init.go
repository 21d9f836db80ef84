/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tmarstad/confknob/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the service configuration file",
	Long: `Create the knobctl service configuration file with a freshly
generated API key. An existing configuration is left alone unless
--force is given.

Examples:
  knobctl init
  knobctl init --config ./knobctl.yaml --pebble-dir ./mydata`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		pebbleDir, _ := cmd.Flags().GetString("pebble-dir")
		force, _ := cmd.Flags().GetBool("force")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if config.ConfigExists(configPath) && !force {
			cmd.Printf("Configuration already exists at %s. Use --force to replace it.\n", configPath)
			return nil
		}

		cfg, err := config.BootstrapConfig(configPath, pebbleDir)
		if err != nil {
			return err
		}

		cmd.Printf("Configuration created at %s\n", configPath)
		cmd.Printf("API key: %s\n", cfg.Security.APIKey)
		cmd.Printf("\nStart the service with:\n")
		cmd.Printf("  knobctl serve --config %s\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("config", "", "Path to config file (default: OS-specific location)")
	initCmd.Flags().Bool("force", false, "Replace an existing configuration")
}
