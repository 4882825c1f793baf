package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cougar-robotics/cougarlog/pkg/di"
)

// container holds the injected dependencies for commands that need them.
var container *di.Container

// SetContainer injects the dependency container. Called by main and by
// tests that substitute fakes.
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cougarlog",
	Short: "CougarLog - WPILOG telemetry decoder",
	Long: `CougarLog decodes WPILOG robot telemetry logs into typed, named,
time-stamped samples, and can export, summarize or serve them over a
REST API.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
