package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	envLogLevel = "MEDIASORTER_LOG_LEVEL"
	envLockFile = "MEDIASORTER_LOCK_FILE"

	defaultLogLevel     = LogLevelInfo
	defaultLockFile     = "/tmp/mediasorter.lock"
	defaultPollInterval = 30 * time.Second
	defaultMinInterval  = 5 * time.Minute
)

var (
	defaultVideoExtensions  = []string{"mkv", "avi", "mp4", "m4v"}
	defaultIgnoreExtensions = []string{"nzb", "nfo", "srr"}
)

// Duration lets time.Duration values be written as strings ("30s", "5m") in yaml.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var str string
	if err := unmarshal(&str); err != nil {
		return err
	}

	v, err := time.ParseDuration(str)
	if err != nil {
		return fmt.Errorf("cannot parse duration %q: %w", str, err)
	}

	*d = Duration(v)

	return nil
}

func (d Duration) Value() time.Duration {
	return time.Duration(d)
}

// RootConfig binds one media kind to its download and library directories.
type RootConfig struct {
	DownloadDir string `yaml:"download_dir"`
	LibraryDir  string `yaml:"library_dir"`
}

type SorterConfig struct {
	TV               RootConfig `yaml:"tv"`
	Movies           RootConfig `yaml:"movies"`
	VideoExtensions  []string   `yaml:"video_extensions"`
	IgnoreExtensions []string   `yaml:"ignore_extensions"`
}

type SchedulerConfig struct {
	PollInterval Duration `yaml:"poll_interval"`
	MinInterval  Duration `yaml:"min_interval"`
}

// FSAdapterConfig is the slice of configuration the filesystem adapter needs.
type FSAdapterConfig struct {
	VideoExtensions  []string
	IgnoreExtensions []string
}

type Config struct {
	LogLevel        string          `yaml:"log_level"`
	LockFile        string          `yaml:"lock_file"`
	SorterConfig    SorterConfig    `yaml:"sorter"`
	SchedulerConfig SchedulerConfig `yaml:"scheduler"`
}

func (c *Config) SetDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}

	if c.LockFile == "" {
		c.LockFile = defaultLockFile
	}

	if len(c.SorterConfig.VideoExtensions) < 1 {
		c.SorterConfig.VideoExtensions = defaultVideoExtensions
	}

	if len(c.SorterConfig.IgnoreExtensions) < 1 {
		c.SorterConfig.IgnoreExtensions = defaultIgnoreExtensions
	}

	if c.SchedulerConfig.PollInterval == 0 {
		c.SchedulerConfig.PollInterval = Duration(defaultPollInterval)
	}

	if c.SchedulerConfig.MinInterval == 0 {
		c.SchedulerConfig.MinInterval = Duration(defaultMinInterval)
	}
}

func (c *Config) Validate() error {
	for _, root := range []struct {
		kind string
		cfg  RootConfig
	}{
		{"tv", c.SorterConfig.TV},
		{"movies", c.SorterConfig.Movies},
	} {
		if root.cfg.DownloadDir == "" {
			return fmt.Errorf("%s: download_dir must be set", root.kind)
		}

		if root.cfg.LibraryDir == "" {
			return fmt.Errorf("%s: library_dir must be set", root.kind)
		}
	}

	if c.SchedulerConfig.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}

	if c.SchedulerConfig.MinInterval <= 0 {
		return fmt.Errorf("min_interval must be positive")
	}

	return nil
}

func (c *Config) FSAdapterConfig() *FSAdapterConfig {
	return &FSAdapterConfig{
		VideoExtensions:  c.SorterConfig.VideoExtensions,
		IgnoreExtensions: c.SorterConfig.IgnoreExtensions,
	}
}

// Load reads the yaml config file and applies defaults and environment overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("cannot unmarshal config: %w", err)
	}

	if level := os.Getenv(envLogLevel); level != "" {
		cfg.LogLevel = level
	}

	if lockFile := os.Getenv(envLockFile); lockFile != "" {
		cfg.LockFile = lockFile
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}
