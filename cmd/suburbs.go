package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var suburbsCmd = &cobra.Command{
	Use:   "suburbs",
	Short: "Suburb-level queries",
	Long:  "Commands for listing, ranking, and searching suburbs.",
}

var suburbsInCmd = &cobra.Command{
	Use:   "in <urban-area>",
	Short: "List the suburbs of an urban area, largest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		suburbs, err := openDB(cmd).SuburbsInCity(args[0])
		if err != nil {
			return err
		}
		formatAreas(os.Stdout, suburbs)
		return nil
	},
}

var suburbsLargestCmd = &cobra.Command{
	Use:   "largest [count]",
	Short: "Rank suburbs nationally or within a state by population",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n := 10
		if len(args) == 1 {
			var err error
			if n, err = strconv.Atoi(args[0]); err != nil {
				return fmt.Errorf("invalid count %q: %w", args[0], err)
			}
		}
		state, _ := cmd.Flags().GetString("state")

		suburbs, err := openDB(cmd).LargestSuburbs(n, state)
		if err != nil {
			return err
		}
		formatAreas(os.Stdout, suburbs)
		return nil
	},
}

var suburbsNearCmd = &cobra.Command{
	Use:   "near <urban-area>",
	Short: "List suburbs within an estimated distance of a city centre",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxKm, _ := cmd.Flags().GetFloat64("max-km")
		sortBy, _ := cmd.Flags().GetString("sort")

		suburbs, err := openDB(cmd).SuburbsByDistance(args[0], maxKm, sortBy)
		if err != nil {
			return err
		}
		if len(suburbs) == 0 {
			fmt.Fprintln(os.Stderr, "No suburbs found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "CODE\tNAME\tDISTANCE\tPOPULATION")
		for _, s := range suburbs {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%.1f km\t%d\n", s.Code, s.Name, s.DistanceKm, s.Population)
		}
		_ = w.Flush()
		return nil
	},
}

var suburbsStateCmd = &cobra.Command{
	Use:   "state <state-name>",
	Short: "List every suburb recorded for a state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		suburbs, err := openDB(cmd).SuburbsInState(args[0])
		if err != nil {
			return err
		}
		formatAreas(os.Stdout, suburbs)
		return nil
	},
}

var suburbsFindCmd = &cobra.Command{
	Use:   "find <pattern>",
	Short: "Search suburbs by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		state, _ := cmd.Flags().GetString("state")

		matches, err := openDB(cmd).FindSuburbsByName(args[0], state)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Fprintln(os.Stderr, "No suburbs match.")
			return nil
		}
		formatAreas(os.Stdout, matches)
		return nil
	},
}

var suburbsProfileCmd = &cobra.Command{
	Use:   "profile <name-or-code>",
	Short: "Show a suburb's census profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openDB(cmd).SuburbDemographics(args[0])
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "Code:\t%s\n", s.Code)
		if s.Name != "" {
			_, _ = fmt.Fprintf(w, "Name:\t%s\n", s.Name)
		}
		if s.State != "" {
			_, _ = fmt.Fprintf(w, "State:\t%s\n", s.State)
		}
		_, _ = fmt.Fprintf(w, "Population:\t%d\n", s.Total)
		_, _ = fmt.Fprintf(w, "  Male:\t%d\n", s.Male)
		_, _ = fmt.Fprintf(w, "  Female:\t%d\n", s.Female)
		_, _ = fmt.Fprintf(w, "Children (0-14):\t%d\n", s.Children)
		_, _ = fmt.Fprintf(w, "Working age (15-64):\t%d\n", s.WorkingAge)
		_, _ = fmt.Fprintf(w, "Seniors (65+):\t%d\n", s.Seniors)
		_ = w.Flush()
		return nil
	},
}

func init() {
	suburbsLargestCmd.Flags().String("state", "", "restrict to one state")
	suburbsNearCmd.Flags().Float64("max-km", 10, "maximum estimated distance from the city centre")
	suburbsNearCmd.Flags().String("sort", "distance", "sort order: distance or population")
	suburbsFindCmd.Flags().String("state", "", "restrict to one state")

	suburbsCmd.AddCommand(suburbsInCmd, suburbsLargestCmd, suburbsNearCmd, suburbsStateCmd, suburbsFindCmd, suburbsProfileCmd)
	rootCmd.AddCommand(suburbsCmd)
}
