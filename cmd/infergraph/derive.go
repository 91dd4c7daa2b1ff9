package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gitrdm/infergraph/pkg/infergraph/derive"
	"github.com/gitrdm/infergraph/pkg/infergraph/memgraph"
)

var deriveBlock string

var deriveCmd = &cobra.Command{
	Use:   "derive <graph.json> <goal>",
	Short: "Report whether goal is derivable in the given graph",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := loadGraph(args[0])
		if err != nil {
			return err
		}
		goal := memgraph.Key(args[1])

		eng, err := derive.NewEngine[memgraph.Key](g, nil)
		if err != nil {
			return err
		}
		for _, c := range splitNonEmpty(deriveBlock) {
			if _, err := eng.Block(memgraph.Key(c)); err != nil {
				return err
			}
		}

		green := color.New(color.FgGreen, color.Bold).SprintFunc()
		red := color.New(color.FgRed, color.Bold).SprintFunc()

		derivable, err := eng.IsDerivable(goal)
		if err != nil {
			return err
		}
		if derivable {
			fmt.Printf("%s %s is derivable\n", green("✓"), goal)
		} else {
			fmt.Printf("%s %s is NOT derivable\n", red("✗"), goal)
		}

		if nd := eng.NonDerivableConclusions(); len(nd) > 0 {
			gray := color.New(color.FgHiBlack).SprintFunc()
			fmt.Println(gray("still pending on:"))
			for c := range nd {
				fmt.Printf("  %s\n", c)
			}
		}
		return nil
	},
}

func init() {
	deriveCmd.Flags().StringVar(&deriveBlock, "block", "", "comma-separated conclusions to block before querying")
	rootCmd.AddCommand(deriveCmd)
}
