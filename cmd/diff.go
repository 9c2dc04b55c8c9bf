package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/lockview/internal/diag"
	"github.com/pders01/lockview/internal/view"
)

var (
	diffExpand    bool
	diffAnomalies bool
	diffJSON      bool
	diffToon      bool
)

var diffCmd = &cobra.Command{
	Use:   "diff <root1> <root2>",
	Short: "Compare the transactions of two roots",
	Long: `Compare two roots and list the transactions that were added,
deleted or changed, grouped by directory. A changed transaction is shown
as its version in root1 followed by its version in root2.

Entries the archive reports that do not describe a transaction are
dropped; --anomalies lists them.

Examples:
  lockview diff sha256:4f1c... sha256:77aa...
  lockview diff sha256:4f1c... sha256:77aa... --expand
  lockview diff sha256:4f1c... sha256:77aa... --json`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().BoolVar(&diffExpand, "expand", false, "Expand every transaction to show heads and bodies")
	diffCmd.Flags().BoolVar(&diffAnomalies, "anomalies", false, "Also list dropped diff entries")
	diffCmd.Flags().BoolVar(&diffJSON, "json", false, "Output as JSON")
	diffCmd.Flags().BoolVar(&diffToon, "toon", false, "Output in LLM-friendly toon format")
}

type rootDiff struct {
	Diff      *view.Snapshot `json:"diff"`
	Anomalies []diag.Event   `json:"anomalies,omitempty"`
}

func runDiff(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	root1, root2 := args[0], args[1]

	client := newClient()
	stream := diag.NewStream()
	tree := newTree(client, stream)

	id := tree.NewDiff()
	d := tree.Diff(id)
	view.Drain(ctx, tree, client, d.SetPair(root1, root2))
	if err := d.Err(); err != nil {
		return fmt.Errorf("failed to diff %s and %s: %w", root1, root2, err)
	}

	if diffExpand {
		expandTransactions(ctx, tree, client, id)
	}

	result := rootDiff{Diff: tree.Snapshot(id)}
	if diffAnomalies {
		result.Anomalies = stream.Events()
	}
	if done, err := writeEncoded(result, diffJSON, diffToon); done {
		return err
	}

	summary := d.Summary()
	fmt.Fprintf(stdout, "Diff: %s -> %s\n\n", root1, root2)
	if summary.Added+summary.Deleted+summary.Changed == 0 {
		fmt.Fprintln(stdout, "No transaction changes")
	} else {
		fmt.Fprint(stdout, view.Text(tree.Render(id)))
	}
	fmt.Fprintf(stdout, "\n%d added, %d deleted, %d changed\n", summary.Added, summary.Deleted, summary.Changed)

	if diffAnomalies && summary.Anomalies > 0 {
		fmt.Fprintf(stdout, "\nDropped entries (%d):\n", summary.Anomalies)
		for _, e := range stream.Events() {
			fmt.Fprintf(stdout, "  %-16s %s %v\n", e.Kind, e.Entry.Action, e.Entry.Path)
		}
	}
	return nil
}
