package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	rootsJSON bool
	rootsToon bool
)

var rootsCmd = &cobra.Command{
	Use:   "roots",
	Short: "List the roots known to the archive store",
	Long: `List every root identifier the archive store serves, in the order
the store returns them.

Examples:
  lockview roots
  lockview roots --json
  lockview roots --server http://archive:8081`,
	Args: cobra.NoArgs,
	RunE: runRoots,
}

func init() {
	rootCmd.AddCommand(rootsCmd)

	rootsCmd.Flags().BoolVar(&rootsJSON, "json", false, "Output as JSON")
	rootsCmd.Flags().BoolVar(&rootsToon, "toon", false, "Output in LLM-friendly toon format")
}

type rootList struct {
	Server string   `json:"server"`
	Roots  []string `json:"roots"`
}

func runRoots(cmd *cobra.Command, args []string) error {
	client := newClient()

	roots, err := client.ListRoots(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list roots: %w", err)
	}

	if done, err := writeEncoded(rootList{Server: client.BaseURL(), Roots: roots}, rootsJSON, rootsToon); done {
		return err
	}

	if len(roots) == 0 {
		fmt.Fprintln(stdout, "No roots found")
		return nil
	}

	fmt.Fprintf(stdout, "Found %d root(s):\n\n", len(roots))
	for _, r := range roots {
		fmt.Fprintf(stdout, "  %s\n", r)
	}
	return nil
}
