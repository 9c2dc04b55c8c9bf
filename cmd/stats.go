package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/lockview/internal/diag"
	"github.com/pders01/lockview/internal/models"
	"github.com/pders01/lockview/internal/view"
)

var (
	statsJSON bool
	statsToon bool
)

var statsCmd = &cobra.Command{
	Use:   "stats <root> [path]",
	Short: "Count the directories and transactions of a root",
	Long: `Expand every directory below path (the root directory by default)
and report:
  - Directory count
  - Transaction count
  - Files that are not request heads, which the tree never shows
  - Directories whose listing failed

Examples:
  lockview stats sha256:4f1c...
  lockview stats sha256:4f1c... example.com --json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output as JSON")
	statsCmd.Flags().BoolVar(&statsToon, "toon", false, "Output in LLM-friendly toon format")
}

type rootStats struct {
	Root         string   `json:"root"`
	Path         []string `json:"path"`
	Directories  int      `json:"directories"`
	Transactions int      `json:"transactions"`
	HiddenFiles  int      `json:"hidden_files"`
	OtherEntries int      `json:"other_entries"`
	Failed       []string `json:"failed,omitempty"`
}

func runStats(cmd *cobra.Command, args []string) error {
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
	expandDirs(ctx, tree, client, id, 0)

	stats := rootStats{Root: root, Path: path}
	tree.Walk(id, func(n view.Node) bool {
		switch n := n.(type) {
		case *view.DirNode:
			stats.Directories++
			if err := n.Err(); err != nil {
				stats.Failed = append(stats.Failed, n.Path().String())
				return true
			}
			for _, e := range n.Entries() {
				switch e.Kind {
				case models.KindDir:
				case models.KindFile:
					if _, ok := models.MatchReqHead(e.Name); !ok {
						stats.HiddenFiles++
					}
				default:
					stats.OtherEntries++
				}
			}
		case *view.TransactionNode:
			stats.Transactions++
		}
		return true
	})

	if done, err := writeEncoded(stats, statsJSON, statsToon); done {
		return err
	}

	fmt.Fprintln(stdout, "Root Statistics")
	fmt.Fprintln(stdout, "━━━━━━━━━━━━━━━")
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "Root:          %s\n", root)
	if len(path) > 0 {
		fmt.Fprintf(stdout, "Path:          %s\n", path)
	}
	fmt.Fprintf(stdout, "Directories:   %d\n", stats.Directories)
	fmt.Fprintf(stdout, "Transactions:  %d\n", stats.Transactions)
	fmt.Fprintf(stdout, "Hidden files:  %d\n", stats.HiddenFiles)
	if stats.OtherEntries > 0 {
		fmt.Fprintf(stdout, "Other entries: %d\n", stats.OtherEntries)
	}
	if len(stats.Failed) > 0 {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Failed listings:")
		for _, p := range stats.Failed {
			fmt.Fprintf(stdout, "  %s\n", p)
		}
	}
	return nil
}
