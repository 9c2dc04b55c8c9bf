package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pders01/lockview/internal/models"
)

var (
	downloadOutput  string
	downloadHeaders bool
)

var downloadCmd = &cobra.Command{
	Use:   "download <root> <path> <hash>",
	Short: "Save the recorded response of a transaction",
	Long: `Fetch the full recorded response of a transaction, the same content a
download link in the tree points at, and write it to a file or stdout.

Examples:
  lockview download sha256:4f1c... example.com/img sha256:9a0b... -o logo.png
  lockview download sha256:4f1c... example.com/api sha256:9a0b... --headers`,
	Args: cobra.ExactArgs(3),
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "Output file (default stdout)")
	downloadCmd.Flags().BoolVar(&downloadHeaders, "headers", false, "Write the status line and headers before the body")
}

func runDownload(cmd *cobra.Command, args []string) error {
	root, path, hash := args[0], parsePath(args[1]), args[2]
	if !models.ValidHash(hash) {
		return fmt.Errorf("invalid transaction hash: %s", hash)
	}

	resp, err := newClient().Response(commandContext(cmd), root, path, hash)
	if err != nil {
		return fmt.Errorf("failed to fetch response: %w", err)
	}
	defer resp.Body.Close()

	var w io.Writer = stdout
	if downloadOutput != "" {
		f, err := os.Create(downloadOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if downloadHeaders {
		fmt.Fprintf(w, "%s %s\r\n", resp.Proto, resp.Status)
		if err := resp.Header.Write(w); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
		fmt.Fprint(w, "\r\n")
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}

	if downloadOutput != "" {
		fmt.Fprintf(stdout, "✓ Wrote %d bytes to %s\n", n, downloadOutput)
	}
	return nil
}
