package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/socketio/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "socketio.json"

	// DefaultEventsDir is the events directory relative to the project root.
	DefaultEventsDir = "events"

	// DefaultTypesFile is the reserved type declaration file inside the events directory.
	DefaultTypesFile = "$types.ts"

	// DefaultOutput is the directory generated files are written to.
	DefaultOutput = "socketgen"

	// DefaultDebounce is the quiet period before regenerating after file changes.
	DefaultDebounce = 500 * time.Millisecond

	// DefaultPollInterval is how often the watcher scans for changes.
	DefaultPollInterval = 100 * time.Millisecond

	// DefaultServerPath is the URL path the socket server is mounted at.
	DefaultServerPath = "/socket.io/"

	// DefaultRedisChannel is the pub/sub channel used for cross-node broadcasts.
	DefaultRedisChannel = "socketio"
)

// Config represents the complete socketio.json configuration.
type Config struct {
	// EventsDir is the directory scanned for event handler files.
	EventsDir string `json:"eventsDir,omitempty"`

	// TypesFile is the reserved, hand-written type declaration file inside EventsDir.
	TypesFile string `json:"typesFile,omitempty"`

	// StrictEvents disables the catch-all signature in the generated Events type.
	// A nil value means true.
	StrictEvents *bool `json:"strictEvents,omitempty"`

	// Output contains generated file output configuration.
	Output OutputConfig `json:"output,omitempty"`

	// Watch contains dev watcher configuration.
	Watch WatchConfig `json:"watch,omitempty"`

	// Server contains runtime server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string

	// root is the project root (the directory holding go.mod).
	root string
}

// OutputConfig contains output settings for generated files.
type OutputConfig struct {
	// Dir is the output directory. Its base name is the generated Go package name.
	Dir string `json:"dir,omitempty"`

	// Package overrides the generated Go package name.
	Package string `json:"package,omitempty"`

	// S3 optionally mirrors generated files to a bucket.
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config configures the S3 output mirror.
type S3Config struct {
	Bucket   string `json:"bucket,omitempty"`
	Prefix   string `json:"prefix,omitempty"`
	Region   string `json:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

// WatchConfig contains dev watcher settings.
type WatchConfig struct {
	// Debounce is the quiet period as a Go duration string (default "500ms").
	Debounce string `json:"debounce,omitempty"`

	// Interval is the polling interval as a Go duration string (default "100ms").
	Interval string `json:"interval,omitempty"`

	// Ignore contains additional patterns to ignore.
	Ignore []string `json:"ignore,omitempty"`
}

// ServerConfig contains runtime settings used by `socketio dev --serve`.
type ServerConfig struct {
	// Path is the URL path of the websocket endpoint.
	Path string `json:"path,omitempty"`

	// Redis enables the redis broadcast adapter when Addr is set.
	Redis RedisConfig `json:"redis,omitempty"`
}

// RedisConfig configures the redis broadcast adapter.
type RedisConfig struct {
	Addr    string `json:"addr,omitempty"`
	Channel string `json:"channel,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	strict := true
	return &Config{
		EventsDir:    DefaultEventsDir,
		TypesFile:    DefaultTypesFile,
		StrictEvents: &strict,
		Output: OutputConfig{
			Dir: DefaultOutput,
		},
		Watch: WatchConfig{
			Debounce: DefaultDebounce.String(),
			Interval: DefaultPollInterval.String(),
		},
		Server: ServerConfig{
			Path: DefaultServerPath,
			Redis: RedisConfig{
				Channel: DefaultRedisChannel,
			},
		},
	}
}

// Load reads configuration from the project root dir.
// A missing socketio.json yields the defaults.
func Load(dir string) (*Config, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	configPath := filepath.Join(abs, ConfigFileName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := New()
		cfg.root = abs
		return cfg, nil
	}
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse socketio.json: " + err.Error()).
			WithSuggestion("Check that socketio.json is valid JSON")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg.configPath = abs
	cfg.root = filepath.Dir(abs)
	cfg.applyDefaults()

	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from, if any.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the project root.
func (c *Config) Dir() string {
	return c.root
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.EventsDir == "" {
		c.EventsDir = DefaultEventsDir
	}
	if c.TypesFile == "" {
		c.TypesFile = DefaultTypesFile
	}
	if c.StrictEvents == nil {
		strict := true
		c.StrictEvents = &strict
	}
	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutput
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = DefaultDebounce.String()
	}
	if c.Watch.Interval == "" {
		c.Watch.Interval = DefaultPollInterval.String()
	}
	if c.Server.Path == "" {
		c.Server.Path = DefaultServerPath
	}
	if c.Server.Redis.Channel == "" {
		c.Server.Redis.Channel = DefaultRedisChannel
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	for _, field := range []struct{ name, value string }{
		{"watch.debounce", c.Watch.Debounce},
		{"watch.interval", c.Watch.Interval},
	} {
		d, err := time.ParseDuration(field.value)
		if err != nil || d <= 0 {
			return errors.New("E122").
				WithDetail(field.name + " = " + strconv.Quote(field.value))
		}
	}
	if c.Output.S3.Bucket != "" && c.Output.S3.Region == "" {
		return errors.New("E121").
			WithDetail("output.s3.region is required when output.s3.bucket is set")
	}
	if strings.ContainsAny(c.TypesFile, `/\`) {
		return errors.New("E120").
			WithDetail("typesFile must be a file name inside eventsDir, got " + strconv.Quote(c.TypesFile))
	}
	return nil
}

// Strict reports whether strict event typing is enabled.
func (c *Config) Strict() bool {
	return c.StrictEvents == nil || *c.StrictEvents
}

// Debounce returns the parsed debounce interval.
func (c *Config) Debounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return DefaultDebounce
	}
	return d
}

// PollInterval returns the parsed watcher polling interval.
func (c *Config) PollInterval() time.Duration {
	d, err := time.ParseDuration(c.Watch.Interval)
	if err != nil || d <= 0 {
		return DefaultPollInterval
	}
	return d
}

// EventsPath returns the absolute path to the events directory.
func (c *Config) EventsPath() string {
	return c.resolve(c.EventsDir)
}

// TypesPath returns the absolute path to the reserved type declaration file.
func (c *Config) TypesPath() string {
	return filepath.Join(c.EventsPath(), c.TypesFile)
}

// OutputPath returns the absolute path to the output directory.
func (c *Config) OutputPath() string {
	return c.resolve(c.Output.Dir)
}

// PackageName returns the Go package name of the generated entry.
func (c *Config) PackageName() string {
	if c.Output.Package != "" {
		return c.Output.Package
	}
	name := strings.ReplaceAll(filepath.Base(c.OutputPath()), "-", "_")
	if name == "" || name == "." || name == string(filepath.Separator) {
		return DefaultOutput
	}
	return name
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.root, path)
}

// Exists checks if a go.mod exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "go.mod"))
	return err == nil
}

// FindProjectRoot walks up directories to find the directory holding go.mod.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E141").
				WithDetail("No go.mod found in " + startDir + " or any parent directory").
				WithSuggestion("Run socketio from inside a Go module")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration for the module containing the working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}

// ModulePath reads the module declaration from dir/go.mod.
func ModulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", errors.New("E141").Wrap(err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "module ") {
			path := strings.TrimSpace(strings.TrimPrefix(line, "module "))
			return strings.Trim(path, `"`), nil
		}
	}

	return "", errors.New("E142").WithDetail(filepath.Join(dir, "go.mod"))
}
