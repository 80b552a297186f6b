package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ausgeo/ausgeo-cli/internal/asgs"
	"github.com/ausgeo/ausgeo-cli/internal/overlap"
)

var buildCmd = &cobra.Command{
	Use:   "build <data-dir> [output-file]",
	Short: "Build a region-to-region relationship table",
	Long: `Reads two boundary shapefiles from the data directory, intersects every
source region with every target region, and writes one CSV row per
overlapping pair with the percentage of the source's area covered.

If the output file already exists the build is skipped, so re-running is
safe. By default suburbs (SAL) are mapped onto significant urban areas (SUA).`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		source, _ := cmd.Flags().GetString("source")
		target, _ := cmd.Flags().GetString("target")
		if source == "" {
			source = cfg.Build.SourceType
		}
		if target == "" {
			target = cfg.Build.TargetType
		}

		srcType, err := asgs.ParseGeoType(source)
		if err != nil {
			return err
		}
		tgtType, err := asgs.ParseGeoType(target)
		if err != nil {
			return err
		}

		opts := overlap.MappingOptions{
			DataDir:    args[0],
			SourceType: srcType,
			TargetType: tgtType,
		}
		if len(args) == 2 {
			opts.OutputPath = args[1]
		}

		path, err := overlap.CreateMapping(ctx, opts)
		if err != nil {
			return err
		}

		fmt.Printf("Relationship table: %s\n", path)
		return nil
	},
}

func init() {
	buildCmd.Flags().String("source", "", "source geography type: sal, sua, lga, sa2 (default: from config)")
	buildCmd.Flags().String("target", "", "target geography type (default: from config)")
	rootCmd.AddCommand(buildCmd)
}
