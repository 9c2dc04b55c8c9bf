package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/lockview/internal/diag"
	"github.com/pders01/lockview/internal/view"
)

var (
	treeDepth        int
	treeTransactions bool
	treeJSON         bool
	treeToon         bool
)

var treeCmd = &cobra.Command{
	Use:   "tree <root> [path]",
	Short: "Print the directory tree of a root",
	Long: `Walk a root starting at path (the root directory by default) and
print its directories and transactions. Only files that hold a request
head are shown, one line per transaction hash.

Examples:
  lockview tree sha256:4f1c...
  lockview tree sha256:4f1c... example.com/api --depth 0
  lockview tree sha256:4f1c... example.com --transactions`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)

	treeCmd.Flags().IntVar(&treeDepth, "depth", 1, "directory levels to expand, 0 for all")
	treeCmd.Flags().BoolVar(&treeTransactions, "transactions", false, "Expand transactions to show heads and bodies")
	treeCmd.Flags().BoolVar(&treeJSON, "json", false, "Output as JSON")
	treeCmd.Flags().BoolVar(&treeToon, "toon", false, "Output in LLM-friendly toon format")
}

func runTree(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	root := args[0]
	path := parsePath("")
	if len(args) > 1 {
		path = parsePath(args[1])
	}

	client := newClient()
	tree := newTree(client, diag.Discard)

	id, fetches := tree.NewDir(root, path, true)
	view.Drain(ctx, tree, client, fetches)
	if err := tree.Dir(id).Err(); err != nil {
		return fmt.Errorf("failed to list %s/%s: %w", root, path, err)
	}

	expandDirs(ctx, tree, client, id, treeDepth)
	if treeTransactions {
		expandTransactions(ctx, tree, client, id)
	}

	if done, err := writeEncoded(tree.Snapshot(id), treeJSON, treeToon); done {
		return err
	}

	fmt.Fprintf(stdout, "Root: %s\n", root)
	if len(path) > 0 {
		fmt.Fprintf(stdout, "Path: %s\n", path)
	}
	fmt.Fprintln(stdout)
	fmt.Fprint(stdout, view.Text(tree.Render(id)))
	return nil
}
