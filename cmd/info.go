package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	infoJSON bool
	infoToon bool
)

var infoCmd = &cobra.Command{
	Use:   "info <root> <path>",
	Short: "Show the content hash of an entry",
	Long: `Print the content hash the archive store records for a directory or
artifact inside a root.

Example:
  lockview info sha256:4f1c... example.com/api`,
	Args: cobra.ExactArgs(2),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "Output as JSON")
	infoCmd.Flags().BoolVar(&infoToon, "toon", false, "Output in LLM-friendly toon format")
}

type entryInfo struct {
	Root string   `json:"root"`
	Path []string `json:"path"`
	Hash string   `json:"hash"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	root, path := args[0], parsePath(args[1])
	if len(path) == 0 {
		return fmt.Errorf("path must not be empty")
	}

	hash, err := newClient().Info(commandContext(cmd), root, path)
	if err != nil {
		return fmt.Errorf("failed to get info for %s: %w", path, err)
	}

	if done, err := writeEncoded(entryInfo{Root: root, Path: path, Hash: hash}, infoJSON, infoToon); done {
		return err
	}

	fmt.Fprintf(stdout, "Root: %s\n", root)
	fmt.Fprintf(stdout, "Path: %s\n", path)
	fmt.Fprintf(stdout, "Hash: %s\n", hash)
	return nil
}
