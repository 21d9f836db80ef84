/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tmarstad/confknob/pkg/api"
	"github.com/tmarstad/confknob/pkg/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the development variable service",
	Long: `Run the REST variable service over the selected store backend.

Settings come from the config file when one exists (run 'knobctl init'
to create it) and any flag given here overrides the file. Without a
config file the built-in defaults apply. An api key of "auto" generates
a fresh key at startup and prints it.

Examples:
  knobctl serve
  knobctl serve --config ./knobctl.yaml
  knobctl serve --backend memory --port 9000 --api-key devkey`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")

		// Load the config file when one is present; flags override it.
		if configPath == "" && config.ConfigExists(config.GetDefaultConfigPath()) {
			configPath = config.GetDefaultConfigPath()
		}

		var cfg *config.Config
		if configPath != "" {
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			cmd.Printf("Loaded configuration from %s\n", configPath)
		} else {
			cfg = config.DefaultConfig()
		}

		if cmd.Flags().Changed("bind") {
			cfg.Bind, _ = cmd.Flags().GetString("bind")
		}
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("api-key") {
			cfg.Security.APIKey, _ = cmd.Flags().GetString("api-key")
		}
		if cmd.Flags().Changed("backend") {
			cfg.Store.Backend, _ = cmd.Flags().GetString("backend")
		}
		if cmd.Flags().Changed("pebble-dir") {
			cfg.Store.PebbleDir, _ = cmd.Flags().GetString("pebble-dir")
		}
		if cmd.Flags().Changed("efivar-dir") {
			cfg.Store.EfiVarDir, _ = cmd.Flags().GetString("efivar-dir")
		}
		if cmd.Flags().Changed("seed") {
			cfg.Store.SeedList, _ = cmd.Flags().GetString("seed")
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		// "auto" means an ephemeral key for this run
		if cfg.Security.APIKey == "" || cfg.Security.APIKey == "auto" {
			key, err := config.GenerateSecureKey(32)
			if err != nil {
				return err
			}
			cfg.Security.APIKey = key
			cmd.Printf("Generated API key: %s\n", key)
		}

		serverConfig := api.ServerConfig{
			Bind:      cfg.Bind,
			Port:      cfg.Port,
			APIKey:    cfg.Security.APIKey,
			Backend:   cfg.Store.Backend,
			PebbleDir: cfg.Store.PebbleDir,
			EfiVarDir: cfg.Store.EfiVarDir,
			SeedList:  cfg.Store.SeedList,
		}

		s, closer, err := api.OpenStore(serverConfig)
		if err != nil {
			return err
		}
		defer closer()

		return api.StartServer(s, serverConfig)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("config", "", "Path to config file (default: OS-specific location)")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind the service to")
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("api-key", "", "API key clients must send in X-API-Key")
	serveCmd.Flags().String("seed", "", "Variable list blob imported into the store at startup")
}
