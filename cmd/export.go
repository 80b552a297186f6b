package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ausgeo/ausgeo-cli/internal/geodb"
)

var exportCmd = &cobra.Command{
	Use:   "export <urban-area> [out-dir]",
	Short: "Export a city's suburb tables as CSV",
	Long: `Writes the standard report set for one urban area: all contained suburbs,
the twenty largest, and one file per distance band from the city centre.
The output directory defaults to the city name, lowercased.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		city := args[0]
		outDir := strings.ToLower(strings.ReplaceAll(city, " ", "_"))
		if len(args) == 2 {
			outDir = args[1]
		}

		written, err := openDB(cmd).ExportCityData(city, outDir)
		if err != nil {
			return err
		}

		for _, path := range written {
			fmt.Println(path)
		}
		return nil
	},
}

var exportCSVCmd = &cobra.Command{
	Use:   "suburbs <urban-area> <file>",
	Short: "Export one city's suburb list to a CSV file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		suburbs, err := openDB(cmd).SuburbsInCity(args[0])
		if err != nil {
			return err
		}
		if err := geodb.ExportCSV(suburbs, args[1]); err != nil {
			return err
		}

		fmt.Printf("Wrote %d suburbs to %s\n", len(suburbs), args[1])
		return nil
	},
}

func init() {
	exportCmd.AddCommand(exportCSVCmd)
	rootCmd.AddCommand(exportCmd)
}
