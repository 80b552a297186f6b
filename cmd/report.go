package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var citiesCmd = &cobra.Command{
	Use:   "cities",
	Short: "List significant urban areas by population",
	RunE: func(cmd *cobra.Command, args []string) error {
		minPop, _ := cmd.Flags().GetInt("min-population")

		cities, err := openDB(cmd).MajorCities(minPop)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "CODE\tURBAN AREA\tPOPULATION")
		for _, c := range cities {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%d\n", c.Code, c.Name, c.Population)
		}
		_ = w.Flush()
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare <city> <city> [city...]",
	Short: "Compare urban areas side by side",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := openDB(cmd).CompareCities(args)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "URBAN AREA\tPOPULATION\tAREA (km²)\tDENSITY (/km²)\tSUBURBS")
		for _, r := range rows {
			_, _ = fmt.Fprintf(w, "%s\t%d\t%.1f\t%.1f\t%d\n", r.Name, r.Population, r.AreaSqKm, r.Density, r.Suburbs)
		}
		_ = w.Flush()
		return nil
	},
}

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Report urban population coverage per state",
	RunE: func(cmd *cobra.Command, args []string) error {
		reports, err := openDB(cmd).UrbanCoverage()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "STATE\tSUBURBS\tURBAN\tPOPULATION\tURBAN POP\tURBAN %")
		for _, r := range reports {
			_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%.1f%%\n",
				r.State, r.Suburbs, r.UrbanSuburbs, r.Population, r.UrbanPopulation, r.UrbanPopulationPct)
		}
		_ = w.Flush()
		return nil
	},
}

var statesCmd = &cobra.Command{
	Use:   "states",
	Short: "Show total suburb population per state",
	RunE: func(cmd *cobra.Command, args []string) error {
		states, err := openDB(cmd).PopulationByState()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "STATE\tSUBURBS\tPOPULATION")
		for _, s := range states {
			_, _ = fmt.Fprintf(w, "%s\t%d\t%d\n", s.State, s.Suburbs, s.Population)
		}
		_ = w.Flush()
		return nil
	},
}

func init() {
	citiesCmd.Flags().Int("min-population", 100000, "minimum population to list")

	rootCmd.AddCommand(citiesCmd, compareCmd, coverageCmd, statesCmd)
}
