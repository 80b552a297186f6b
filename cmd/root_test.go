package main

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ausgeo/ausgeo-cli/internal/geodb"
)

func TestCommandRegistration(t *testing.T) {
	want := []string{
		"build", "population", "within", "container", "breakdown",
		"suburbs", "cities", "compare", "coverage", "states",
		"export", "loadgeojson",
	}

	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		assert.True(t, registered[name], "command %s not registered", name)
	}
}

func TestSuburbsSubcommands(t *testing.T) {
	sub := make(map[string]bool)
	for _, c := range suburbsCmd.Commands() {
		sub[c.Name()] = true
	}
	for _, name := range []string{"in", "largest", "near", "state", "find", "profile"} {
		assert.True(t, sub[name], "suburbs %s not registered", name)
	}
}

func TestFormatAreas(t *testing.T) {
	var buf bytes.Buffer
	formatAreas(&buf, []geodb.Area{
		{Code: "11344", Name: "Kirribilli", State: "New South Wales", OverlapPct: 100, Population: 3042},
	})

	out := buf.String()
	assert.Contains(t, out, "CODE")
	assert.Contains(t, out, "Kirribilli")
	assert.Contains(t, out, "100.0%")
	assert.Contains(t, out, "3042")
}

func TestFormatByAge(t *testing.T) {
	var buf bytes.Buffer
	formatByAge(&buf, "COUNT", func(age string) string { return fmt.Sprintf("len=%d", len(age)) })

	out := buf.String()
	assert.Contains(t, out, "AGE")
	assert.Contains(t, out, "total")
	for _, age := range geodb.AgeGroups {
		assert.Contains(t, out, age)
	}
}

func TestGeoTypeFlag(t *testing.T) {
	newCmd := func(value string) *cobra.Command {
		c := &cobra.Command{Use: "test"}
		c.Flags().String("type", value, "geography type")
		return c
	}

	gt, err := geoTypeFlag(newCmd("sua"))
	require.NoError(t, err)
	assert.Equal(t, "sua", string(gt))

	_, err = geoTypeFlag(newCmd("bogus"))
	require.Error(t, err)
}
