package config

import (
	"time"

	"github.com/spf13/viper"
)

// Defaults for every key lockview reads
const (
	DefaultServerURL     = "http://127.0.0.1:8081"
	DefaultServerTimeout = 30 * time.Second
	DefaultInlineLimit   = 100000
	DefaultLogLevel      = "warn"
	DefaultLogFormat     = "console"
)

// File mirrors the TOML config file
type File struct {
	Server  ServerSection  `toml:"server"`
	Body    BodySection    `toml:"body"`
	Log     LogSection     `toml:"log"`
	Metrics MetricsSection `toml:"metrics"`
}

type ServerSection struct {
	URL     string `toml:"url"`
	Timeout string `toml:"timeout"`
}

type BodySection struct {
	InlineLimit int64 `toml:"inline_limit"`
}

type LogSection struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type MetricsSection struct {
	Addr string `toml:"addr"`
}

// Default returns the config file written by `lockview init`
func Default() File {
	return File{
		Server:  ServerSection{URL: DefaultServerURL, Timeout: DefaultServerTimeout.String()},
		Body:    BodySection{InlineLimit: DefaultInlineLimit},
		Log:     LogSection{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Metrics: MetricsSection{},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	viper.SetDefault("server.url", DefaultServerURL)
	viper.SetDefault("server.timeout", DefaultServerTimeout)
	viper.SetDefault("body.inline_limit", DefaultInlineLimit)
	viper.SetDefault("log.level", DefaultLogLevel)
	viper.SetDefault("log.format", DefaultLogFormat)
	viper.SetDefault("metrics.addr", "")
}

// GetServerURL returns the archive store base URL
func GetServerURL() string {
	return viper.GetString("server.url")
}

// GetServerTimeout returns the HTTP client timeout; 0 disables it
func GetServerTimeout() time.Duration {
	return viper.GetDuration("server.timeout")
}

// GetInlineLimit returns the largest body size shown inline
func GetInlineLimit() int64 {
	limit := viper.GetInt64("body.inline_limit")
	if limit < 0 {
		return 0
	}
	return limit
}

// GetLogLevel returns the log level
func GetLogLevel() string {
	return viper.GetString("log.level")
}

// GetLogFormat returns the log format, json or console
func GetLogFormat() string {
	return viper.GetString("log.format")
}

// GetMetricsAddr returns the metrics listen address, "" when disabled
func GetMetricsAddr() string {
	return viper.GetString("metrics.addr")
}
