package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/lockview/internal/diag"
	"github.com/pders01/lockview/internal/models"
	"github.com/pders01/lockview/internal/view"
)

var (
	showJSON bool
	showToon bool
)

var showCmd = &cobra.Command{
	Use:   "show <root> <path> <hash>",
	Short: "Show one transaction",
	Long: `Load the request and response of one transaction and print both
heads and bodies. Bodies that are empty are marked as such; bodies that
are too large or not text are replaced by a download link.

Example:
  lockview show sha256:4f1c... example.com/api sha256:9a0b...`,
	Args: cobra.ExactArgs(3),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	showCmd.Flags().BoolVar(&showToon, "toon", false, "Output in LLM-friendly toon format")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	root, path, hash := args[0], parsePath(args[1]), args[2]

	if !models.ValidHash(hash) {
		return fmt.Errorf("invalid transaction hash: %s", hash)
	}

	client := newClient()
	tree := newTree(client, diag.Discard)

	id, fetches := tree.NewTransaction(root, path, hash, true)
	view.Drain(ctx, tree, client, fetches)

	x := tree.Transaction(id)
	if err := x.Err(); err != nil {
		return fmt.Errorf("failed to load transaction %s: %w", hash, err)
	}
	// a failed head can be followed by a successful one, which clears the error
	if !x.Complete() {
		return fmt.Errorf("failed to load transaction %s: request and response heads are both required", hash)
	}

	if done, err := writeEncoded(tree.Snapshot(id), showJSON, showToon); done {
		return err
	}

	fmt.Fprintf(stdout, "Root: %s\n", root)
	fmt.Fprintf(stdout, "Path: %s\n\n", path)
	fmt.Fprint(stdout, view.Text(tree.Render(id)))
	return nil
}
