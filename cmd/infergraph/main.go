// Command infergraph is a small demo binary over the derive, resolve, and
// hitting packages: derivability queries, minimal-justification
// enumeration, and minimal-hitting-set computation against a JSON-encoded
// toy inference graph.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "infergraph",
	Short: "Reason over inference graphs: derivability, minimal justifications, hitting sets",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
