package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ausgeo/ausgeo-cli/internal/asgs"
	"github.com/ausgeo/ausgeo-cli/internal/geodb"
)

var populationCmd = &cobra.Command{
	Use:   "population <name-or-code>",
	Short: "Look up the population of an area",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gt, err := geoTypeFlag(cmd)
		if err != nil {
			return err
		}

		pop, err := openDB(cmd).GetPopulation(args[0], gt)
		if err != nil {
			return err
		}

		fmt.Printf("%s: %d\n", args[0], pop)
		return nil
	},
}

var withinCmd = &cobra.Command{
	Use:   "within <urban-area>",
	Short: "List the regions contained in an urban area",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gt, err := geoTypeFlag(cmd)
		if err != nil {
			return err
		}
		minOverlap, _ := cmd.Flags().GetFloat64("min-overlap")

		areas, err := openDB(cmd).RegionsWithin(args[0], gt, minOverlap)
		if err != nil {
			return err
		}
		if len(areas) == 0 {
			fmt.Fprintln(os.Stderr, "No regions found.")
			return nil
		}

		formatAreas(os.Stdout, areas)
		return nil
	},
}

var containerCmd = &cobra.Command{
	Use:   "container <name-or-code>",
	Short: "Find the urban area containing a region",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gt, err := geoTypeFlag(cmd)
		if err != nil {
			return err
		}
		minOverlap, _ := cmd.Flags().GetFloat64("min-overlap")

		containers, err := openDB(cmd).ContainerFor(args[0], gt, minOverlap)
		if err != nil {
			return err
		}
		if len(containers) == 0 {
			fmt.Fprintln(os.Stderr, "Not inside any urban area at that threshold.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "CODE\tURBAN AREA\tOVERLAP\tPOPULATION")
		for _, c := range containers {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%.1f%%\t%d\n", c.Code, c.Name, c.OverlapPct, c.Population)
		}
		_ = w.Flush()
		return nil
	},
}

var breakdownCmd = &cobra.Command{
	Use:   "breakdown <suburb-code>",
	Short: "Show a suburb's population by age group and gender",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db := openDB(cmd)
		age, _ := cmd.Flags().GetString("age")
		gender, _ := cmd.Flags().GetString("gender")

		switch {
		case age != "" && gender != "":
			v, err := db.BreakdownValue(args[0], asgs.SAL, age, gender)
			if err != nil {
				return err
			}
			fmt.Printf("%d\n", v)

		case age != "":
			counts, err := db.AgeGroupBreakdown(args[0], asgs.SAL, age)
			if err != nil {
				return err
			}
			fmt.Printf("male: %d  female: %d  total: %d\n", counts.Male, counts.Female, counts.Total)

		case gender != "":
			byAge, err := db.GenderBreakdown(args[0], asgs.SAL, gender)
			if err != nil {
				return err
			}
			formatByAge(os.Stdout, "COUNT", func(age string) string { return fmt.Sprintf("%d", byAge[age]) })

		default:
			b, err := db.PopulationBreakdown(args[0], asgs.SAL)
			if err != nil {
				return err
			}
			formatByAge(os.Stdout, "MALE\tFEMALE\tTOTAL", func(age string) string {
				c := b[age]
				return fmt.Sprintf("%d\t%d\t%d", c.Male, c.Female, c.Total)
			})
		}
		return nil
	},
}

// geoTypeFlag parses the shared --type flag.
func geoTypeFlag(cmd *cobra.Command) (asgs.GeoType, error) {
	s, _ := cmd.Flags().GetString("type")
	return asgs.ParseGeoType(s)
}

func formatAreas(out io.Writer, areas []geodb.Area) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CODE\tNAME\tSTATE\tOVERLAP\tPOPULATION")
	for _, a := range areas {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%.1f%%\t%d\n", a.Code, a.Name, a.State, a.OverlapPct, a.Population)
	}
	_ = w.Flush()
}

// formatByAge prints one row per age band ("total" first) using row to
// render the counts.
func formatByAge(out io.Writer, header string, row func(age string) string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "AGE\t"+header)
	_, _ = fmt.Fprintf(w, "%s\t%s\n", "total", row("total"))
	for _, age := range geodb.AgeGroups {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", age, row(age))
	}
	_ = w.Flush()
}

func init() {
	populationCmd.Flags().String("type", "sua", "geography type: sal, sua, lga")
	withinCmd.Flags().String("type", "sal", "geography type of the contained regions")
	withinCmd.Flags().Float64("min-overlap", 0, "minimum overlap percentage (default 50)")
	containerCmd.Flags().String("type", "sal", "geography type of the region")
	containerCmd.Flags().Float64("min-overlap", 0, "minimum overlap percentage (default 50)")
	breakdownCmd.Flags().String("age", "", "restrict to one age group, e.g. 25_34")
	breakdownCmd.Flags().String("gender", "", "restrict to one gender: male, female, total")

	rootCmd.AddCommand(populationCmd, withinCmd, containerCmd, breakdownCmd)
}
