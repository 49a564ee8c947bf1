// Command dermsched generates physician half-day schedules from a roster file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bluemens/dermatopathology-scheduler/internal/config"
	"github.com/bluemens/dermatopathology-scheduler/pkg/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:          "dermsched",
	Short:        "Dermatopathology half-day scheduling service",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
}

// loadConfig loads configuration and initializes logging for a command.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Logging)
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
