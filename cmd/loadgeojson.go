package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ausgeo/ausgeo-cli/internal/asgs"
	"github.com/ausgeo/ausgeo-cli/internal/store"
)

var loadGeoJSONCmd = &cobra.Command{
	Use:   "loadgeojson <file>",
	Short: "Load a GeoJSON boundary file into the local boundary database",
	Long: `Parses an ABS GeoJSON feature collection and stores each region's
attributes and geometry (as WKB) in a SQLite database. Files already
recorded as loaded are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		gt, err := geoTypeFlag(cmd)
		if err != nil {
			return err
		}
		ds, ok := asgs.DatasetByType(gt)
		if !ok {
			return fmt.Errorf("no boundary dataset for type %q", gt)
		}

		dbPath, _ := cmd.Flags().GetString("db")
		if dbPath == "" {
			dbPath = cfg.Store.Path
		}

		st, err := store.NewSQLite(dbPath)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		n, err := store.LoadGeoJSON(ctx, st, args[0], ds)
		if err != nil {
			return err
		}

		if n == 0 {
			fmt.Println("Already loaded, nothing to do.")
		} else {
			fmt.Printf("Loaded %d regions into %s\n", n, dbPath)
		}
		return nil
	},
}

func init() {
	loadGeoJSONCmd.Flags().String("type", "sal", "geography type of the file: sal, sua, lga, sa2")
	loadGeoJSONCmd.Flags().String("db", "", "boundary database path (default: from config)")
	rootCmd.AddCommand(loadGeoJSONCmd)
}
