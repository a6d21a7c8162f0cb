package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/yarnscan/foundation/core/error"
	mdwlog "github.com/msto63/yarnscan/foundation/core/log"
	"github.com/msto63/yarnscan/foundation/yarn/scanner"
)

// EnvConfigPath names the environment variable LoadFromEnv reads
const EnvConfigPath = "YARNSCAN_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Scanner ScannerConfig `toml:"scanner" yaml:"scanner"`
	Journal JournalConfig `toml:"journal" yaml:"journal"`
	Output  OutputConfig  `toml:"output" yaml:"output"`
	Cache   CacheConfig   `toml:"cache" yaml:"cache"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name      string `toml:"name" yaml:"name"`
	DataDir   string `toml:"data_dir" yaml:"data_dir"`
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// ScannerConfig holds indentation tracker settings
type ScannerConfig struct {
	CommentMarker      string `toml:"comment_marker" yaml:"comment_marker"`
	CheckpointCapacity int    `toml:"checkpoint_capacity" yaml:"checkpoint_capacity"`
}

// JournalConfig holds checkpoint journal settings
type JournalConfig struct {
	Enabled   bool     `toml:"enabled" yaml:"enabled"`
	Path      string   `toml:"path" yaml:"path"`
	Retention Duration `toml:"retention" yaml:"retention"`
	MaxRuns   int      `toml:"max_runs" yaml:"max_runs"`
}

// OutputConfig holds CLI output settings
type OutputConfig struct {
	Format string `toml:"format" yaml:"format"`
	Color  string `toml:"color" yaml:"color"`
}

// CacheConfig holds checkpoint cache settings
type CacheConfig struct {
	MaxItems int      `toml:"max_items" yaml:"max_items"`
	TTL      Duration `toml:"ttl" yaml:"ttl"`
}

// ServerConfig holds the gRPC and HTTP listener settings
type ServerConfig struct {
	Host             string   `toml:"host" yaml:"host"`
	GRPCPort         int      `toml:"grpc_port" yaml:"grpc_port"`
	HTTPPort         int      `toml:"http_port" yaml:"http_port"`
	EnableReflection bool     `toml:"enable_reflection" yaml:"enable_reflection"`
	AllowedOrigins   []string `toml:"allowed_origins" yaml:"allowed_origins"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

var (
	outputFormats = []string{"text", "json", "yaml"}
	colorModes    = []string{"auto", "always", "never"}
)

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, mdwerror.Newf("config file not found: %s", path).
			WithCode(mdwerror.CodeConfigMissing).
			WithOperation("config.Load")
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to read config").
			WithCode(mdwerror.CodeConfigInvalid).
			WithOperation("config.Load")
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		_, err = toml.Decode(string(data), &cfg)
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeConfigInvalid).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads configuration from the YARNSCAN_CONFIG environment
// variable or the first default location that exists
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		defaultPaths := []string{
			"./configs/config.toml",
			"./yarnscan.toml",
			"./yarnscan.yaml",
			filepath.Join(os.Getenv("HOME"), ".config/yarnscan/config.toml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return nil, mdwerror.New("no config file found, set " + EnvConfigPath + " or create configs/config.toml").
			WithCode(mdwerror.CodeConfigMissing).
			WithOperation("config.LoadFromEnv")
	}

	return Load(path)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "yarnscan"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "warn"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// Scanner
	if c.Scanner.CommentMarker == "" {
		c.Scanner.CommentMarker = scanner.DefaultCommentMarker
	}
	if c.Scanner.CheckpointCapacity == 0 {
		c.Scanner.CheckpointCapacity = scanner.SerializationBufferSize
	}

	// Journal
	if c.Journal.Path == "" {
		c.Journal.Path = filepath.Join(c.General.DataDir, "journal.db")
	}
	if c.Journal.Retention.Duration == 0 {
		c.Journal.Retention.Duration = 7 * 24 * time.Hour
	}
	if c.Journal.MaxRuns == 0 {
		c.Journal.MaxRuns = 1000
	}

	// Output
	if c.Output.Format == "" {
		c.Output.Format = "text"
	}
	if c.Output.Color == "" {
		c.Output.Color = "auto"
	}

	// Cache
	if c.Cache.MaxItems == 0 {
		c.Cache.MaxItems = 4096
	}
	if c.Cache.TTL.Duration == 0 {
		c.Cache.TTL.Duration = 30 * time.Minute
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.GRPCPort == 0 {
		c.Server.GRPCPort = 9310
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 9311
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.Journal.Path = os.ExpandEnv(c.Journal.Path)
}

// Validate checks values that defaults cannot repair
func (c *Config) Validate() error {
	invalid := func(field, message string, value interface{}) error {
		return mdwerror.New(message).
			WithCode(mdwerror.CodeConfigInvalid).
			WithOperation("config.Validate").
			WithDetail("field", field).
			WithDetail("value", value)
	}

	if _, err := mdwlog.ParseLevel(c.General.LogLevel); err != nil {
		return invalid("general.log_level", "unknown log level", c.General.LogLevel)
	}
	if _, err := mdwlog.ParseFormat(c.General.LogFormat); err != nil {
		return invalid("general.log_format", "unknown log format", c.General.LogFormat)
	}
	if utf8.RuneCountInString(c.Scanner.CommentMarker) != 2 {
		return invalid("scanner.comment_marker", "comment marker must be exactly two characters", c.Scanner.CommentMarker)
	}
	if scanner.MaxLevels(c.Scanner.CheckpointCapacity) < 0 {
		return invalid("scanner.checkpoint_capacity", "checkpoint capacity must hold at least the 8-byte header", c.Scanner.CheckpointCapacity)
	}
	if !contains(outputFormats, c.Output.Format) {
		return invalid("output.format", "unknown output format", c.Output.Format)
	}
	if !contains(colorModes, c.Output.Color) {
		return invalid("output.color", "unknown color mode", c.Output.Color)
	}
	if c.Journal.Retention.Duration < 0 {
		return invalid("journal.retention", "retention must not be negative", c.Journal.Retention.String())
	}
	if c.Journal.MaxRuns < 0 {
		return invalid("journal.max_runs", "run limit must not be negative", c.Journal.MaxRuns)
	}
	if c.Cache.MaxItems < 0 {
		return invalid("cache.max_items", "cache size must not be negative", c.Cache.MaxItems)
	}
	for field, port := range map[string]int{"server.grpc_port": c.Server.GRPCPort, "server.http_port": c.Server.HTTPPort} {
		if port < 0 || port > 65535 {
			return invalid(field, "port out of range", port)
		}
	}
	return nil
}

// Address returns the listen address of a server endpoint, "grpc" or "http"
func (c *Config) Address(endpoint string) string {
	switch endpoint {
	case "grpc":
		return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCPort)
	case "http":
		return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
	default:
		return ""
	}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
