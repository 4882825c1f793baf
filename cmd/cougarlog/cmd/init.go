package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cougar-robotics/cougarlog/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Bootstrap a configuration file",
	Long: `Create a configuration file with a generated API key. The file is
written with 0600 permissions; pass --config to control its location.

Example:
  cougarlog init --data-dir ./data`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		dataDir, _ := cmd.Flags().GetString("data-dir")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}
		if config.ConfigExists(configPath) {
			fmt.Printf("Config already exists at %s\n", configPath)
			return
		}

		cfg, err := config.BootstrapConfig(configPath, dataDir)
		if err != nil {
			fmt.Printf("Error bootstrapping config: %v\n", err)
			return
		}

		fmt.Printf("Wrote %s\n", configPath)
		fmt.Printf("API key: %s\n", cfg.Security.APIKey)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().String("config", "", "Path to config file")
	initCmd.Flags().String("data-dir", "", "Data directory for decoded sessions")
}
