package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gitrdm/infergraph/pkg/infergraph"
	"github.com/gitrdm/infergraph/pkg/infergraph/memgraph"
	"github.com/gitrdm/infergraph/pkg/infergraph/resolve"
)

var (
	justifyOrder        string
	justifyPriorityFile string
)

var justifyCmd = &cobra.Command{
	Use:   "justify <graph.json> <goal>",
	Short: "Enumerate minimal justifications for goal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := loadGraph(args[0])
		if err != nil {
			return err
		}
		goal := memgraph.Key(args[1])

		eng, err := resolve.NewEngine[memgraph.Key, memgraph.Key](g, g, nil)
		if err != nil {
			return err
		}

		cyan := color.New(color.FgCyan).SprintFunc()
		n := 0
		listener := infergraph.ListenerFunc[memgraph.Key](func(set map[memgraph.Key]struct{}) {
			n++
			axioms := make([]string, 0, len(set))
			for a := range set {
				axioms = append(axioms, string(a))
			}
			sort.Strings(axioms)
			fmt.Printf("%s {%s}\n", cyan("justification:"), strings.Join(axioms, ", "))
		})

		switch justifyOrder {
		case "", "size":
			err = eng.For(goal).Enumerate(listener)
		case "priority-file":
			if justifyPriorityFile == "" {
				return fmt.Errorf("justify: --order priority-file requires --priority-file")
			}
			var order *priorityFileOrder
			order, err = loadPriorityFile(justifyPriorityFile)
			if err != nil {
				return err
			}
			err = resolve.EnumerateOrdered[memgraph.Key, memgraph.Key, [2]int](eng, goal, order.comparator(), listener)
		default:
			return fmt.Errorf("justify: unknown --order %q (want size or priority-file)", justifyOrder)
		}
		if err != nil {
			return err
		}

		if n == 0 {
			gray := color.New(color.FgHiBlack).SprintFunc()
			fmt.Println(gray("no minimal justifications found"))
		}
		return nil
	},
}

func init() {
	justifyCmd.Flags().StringVar(&justifyOrder, "order", "size", "emission order: size or priority-file")
	justifyCmd.Flags().StringVar(&justifyPriorityFile, "priority-file", "", "path to a newline-separated axiom priority file (used with --order priority-file)")
	rootCmd.AddCommand(justifyCmd)
}
