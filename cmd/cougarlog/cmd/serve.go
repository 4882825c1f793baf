package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cougar-robotics/cougarlog/pkg/api"
	"github.com/cougar-robotics/cougarlog/pkg/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the cougarlog REST API server. Uploaded logs are decoded and
persisted so streams, samples and statistics can be queried later.

Examples:
  cougarlog serve --api-key=mysecretkey --port=8080
  cougarlog serve --config ~/.config/cougarlog/config.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetInt("port")
		bind, _ := cmd.Flags().GetString("bind")
		apiKey, _ := cmd.Flags().GetString("api-key")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		configPath, _ := cmd.Flags().GetString("config")

		// Flags win; the config file fills the gaps.
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}
		if config.ConfigExists(configPath) {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				cmd.Printf("Error loading config: %v\n", err)
				return
			}
			if apiKey == "" {
				apiKey = cfg.Security.APIKey
			}
			if dataDir == "" {
				dataDir = cfg.DataDir
			}
			if !cmd.Flags().Changed("port") {
				port = cfg.Port
			}
			if !cmd.Flags().Changed("bind") {
				bind = cfg.Bind
			}
		}

		if apiKey == "" || apiKey == "auto" {
			cmd.Println("Error: --api-key is required (or run 'cougarlog init' first)")
			return
		}
		if dataDir == "" {
			dataDir = "./data"
		}
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			cmd.Printf("Error creating data dir: %v\n", err)
			return
		}

		store, err := container.GetStoreOpener().OpenStore(dataDir)
		if err != nil {
			cmd.Printf("Error opening session store: %v\n", err)
			return
		}
		defer store.Close()

		serverConfig := api.ServerConfig{
			Port:    port,
			Bind:    bind,
			APIKey:  apiKey,
			DataDir: dataDir,
		}

		starter := container.GetServerFactory().CreateServerStarter()
		if err := starter.StartServer(store, serverConfig); err != nil {
			cmd.Printf("Error starting server: %v\n", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind to")
	serveCmd.Flags().String("api-key", "", "API key for authentication")
	serveCmd.Flags().StringP("data-dir", "d", "", "Data directory for decoded sessions")
	serveCmd.Flags().String("config", "", "Path to config file")
}
