package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gitrdm/infergraph/pkg/infergraph/hitting"
	"github.com/gitrdm/infergraph/pkg/infergraph/memgraph"
)

var hitCmd = &cobra.Command{
	Use:   "hit <family.json>",
	Short: "Compute minimal hitting sets for a JSON array of string sets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("hit: read %s: %w", args[0], err)
		}

		var family [][]memgraph.Key
		if err := json.Unmarshal(data, &family); err != nil {
			return fmt.Errorf("hit: decode %s: %w", args[0], err)
		}

		sets, err := hitting.MinimalHittingSets(family)
		if err != nil {
			return err
		}

		cyan := color.New(color.FgCyan).SprintFunc()
		for _, set := range sets {
			elems := make([]string, 0, len(set))
			for e := range set {
				elems = append(elems, string(e))
			}
			sort.Strings(elems)
			fmt.Printf("%s {%s}\n", cyan("hitting set:"), strings.Join(elems, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hitCmd)
}
