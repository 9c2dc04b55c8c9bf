package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/lockview/internal/diag"
	"github.com/pders01/lockview/internal/tui"
)

var browseDiff string

var browseCmd = &cobra.Command{
	Use:   "browse [root]",
	Short: "Browse roots interactively",
	Long: `Open the interactive browser. Without arguments it starts at the
list of roots; with a root it opens that root's tree; with --diff it
opens the diff between root and the given second root.

Keys:
  enter  open a root, expand or collapse an entry
  d      pick the first side of a diff
  s      swap the sides of a diff
  esc    back to the root list
  q      quit

Examples:
  lockview browse
  lockview browse sha256:4f1c...
  lockview browse sha256:4f1c... --diff sha256:77aa...`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().StringVar(&browseDiff, "diff", "", "Second root to diff against")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	var opts tui.Options
	if len(args) > 0 {
		opts.Root = args[0]
	}
	if browseDiff != "" {
		if opts.Root == "" {
			return fmt.Errorf("--diff needs a root to compare against")
		}
		opts.Root2 = browseDiff
	}

	client := newClient()
	if err := tui.Run(commandContext(cmd), client, newTree(client, diag.NewStream()), opts); err != nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}
	return nil
}
