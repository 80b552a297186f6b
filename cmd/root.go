package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ausgeo/ausgeo-cli/internal/config"
	"github.com/ausgeo/ausgeo-cli/internal/geodb"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ausgeo",
	Short: "Australian statistical geography reference toolkit",
	Long:  "Builds region-to-region relationship tables from ABS boundary files and answers population, containment, and demographic queries over them.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// openDB builds the query layer over the configured data directory, honoring
// the --data-dir override.
func openDB(cmd *cobra.Command) *geodb.Database {
	dir, _ := cmd.Flags().GetString("data-dir")
	if dir == "" {
		dir = cfg.Data.Dir
	}
	return geodb.New(dir)
}

func init() {
	rootCmd.PersistentFlags().String("data-dir", "", "data directory holding Boundaries/, Population/ and Relationships/ (default: from config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
