package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alpkeskin/gotoon"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pders01/lockview/internal/archive"
	"github.com/pders01/lockview/internal/config"
	"github.com/pders01/lockview/internal/diag"
	"github.com/pders01/lockview/internal/logging"
	"github.com/pders01/lockview/internal/metrics"
	"github.com/pders01/lockview/internal/models"
	"github.com/pders01/lockview/internal/view"
)

var (
	cfgFile string

	// stdout receives command output; tests swap it
	stdout io.Writer = os.Stdout
)

var rootCmd = &cobra.Command{
	Use:   "lockview",
	Short: "Inspect and diff captured HTTP transaction archives",
	Long: `lockview browses the roots of an httplock archive store.

A root is an immutable, content-addressed tree of captured HTTP
transactions. lockview lists roots, walks their directories lazily,
shows request and response heads and bodies, and diffs two roots to
find the transactions that were added, deleted or changed.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/lockview/config.toml)")
	flags.String("server", "", "archive store URL (default "+config.DefaultServerURL+")")
	flags.Duration("timeout", 0, "HTTP timeout for archive requests (default 30s, 0 keeps the configured value)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this address")

	viper.BindPFlag("server.url", flags.Lookup("server"))
	viper.BindPFlag("log.level", flags.Lookup("log-level"))
	viper.BindPFlag("metrics.addr", flags.Lookup("metrics-addr"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		configDir, err := configDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		viper.AddConfigPath(configDir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("lockview")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	config.SetDefaults()

	if err := viper.ReadInConfig(); err == nil {
		logging.Debug("using config file", logging.String("path", viper.ConfigFileUsed()))
	}
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lockview"), nil
}

// setup runs before every command: logging first, then the optional
// metrics endpoint
func setup(cmd *cobra.Command, args []string) error {
	if d, _ := cmd.Flags().GetDuration("timeout"); d > 0 {
		viper.Set("server.timeout", d)
	}

	if err := logging.Init(logging.Config{
		Level:  config.GetLogLevel(),
		Format: config.GetLogFormat(),
	}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	if addr := config.GetMetricsAddr(); addr != "" {
		go func() {
			if err := metrics.Serve(cmd.Context(), addr); err != nil {
				logging.Error("metrics server failed", logging.String("addr", addr), logging.Err(err))
			}
		}()
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

func newClient() *archive.Client {
	return archive.New(archive.Config{
		BaseURL: config.GetServerURL(),
		Timeout: config.GetServerTimeout(),
	})
}

func newTree(c *archive.Client, rec diag.Recorder) *view.Tree {
	return view.NewTree(
		view.WithPolicy(view.Policy{InlineLimit: config.GetInlineLimit()}),
		view.WithLinks(c),
		view.WithRecorder(rec),
	)
}

// writeEncoded writes v as JSON or toon when either flag is set and reports
// whether it did
func writeEncoded(v any, asJSON, asToon bool) (bool, error) {
	if asJSON {
		output, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(stdout, string(output))
		return true, nil
	}

	if asToon {
		output, err := gotoon.Encode(v)
		if err != nil {
			return true, fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Fprintln(stdout, output)
		return true, nil
	}

	return false, nil
}

// parsePath splits a slash separated path argument; "" and "/" are the root
func parsePath(s string) models.Path {
	s = strings.Trim(s, "/")
	if s == "" {
		return models.Path{}
	}
	return models.Path(strings.Split(s, "/"))
}
