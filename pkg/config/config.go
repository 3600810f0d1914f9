// Package config holds the settings for the cifatom commands. They come
// from defaults, an optional YAML file and CIFATOM_ environment variables,
// in increasing order of strength. Command line flags go on top of that.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Config is everything we can set.
type Config struct {
	Log  LogConfig  `mapstructure:"log" yaml:"log"`
	Read ReadConfig `mapstructure:"read" yaml:"read"`
	Scan ScanConfig `mapstructure:"scan" yaml:"scan"`
}

// LogConfig says where logging goes. File is "" to throw it away,
// "stdout", "stderr" or a file name.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
	JSON  bool   `mapstructure:"json" yaml:"json"`
}

// ReadConfig controls how files are opened.
type ReadConfig struct {
	Mmap bool `mapstructure:"mmap" yaml:"mmap"`
}

// ScanConfig is for walking a directory of files.
type ScanConfig struct {
	Workers   int `mapstructure:"workers" yaml:"workers"`
	MaxFiles  int `mapstructure:"max_files" yaml:"max_files"`   // 0 means no limit
	MaxErrors int `mapstructure:"max_errors" yaml:"max_errors"` // give up after this many broken files
}

const (
	EnvPrefix  = "CIFATOM"
	configName = "cifatom"
)

// DefaultConfig returns a new configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Log:  LogConfig{Level: "info", File: "stderr"},
		Read: ReadConfig{Mmap: true},
		Scan: ScanConfig{Workers: runtime.NumCPU(), MaxFiles: 0, MaxErrors: 5},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("read.mmap", d.Read.Mmap)
	v.SetDefault("scan.workers", d.Scan.Workers)
	v.SetDefault("scan.max_files", d.Scan.MaxFiles)
	v.SetDefault("scan.max_errors", d.Scan.MaxErrors)
}

// New returns a viper instance with our defaults and environment
// variables set up, but no file read yet. The commands bind their flags
// to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configPath, or if that is "", looks for cifatom.yaml in the
// current directory and $HOME/.config/cifatom. Not finding a file is fine.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/cifatom")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the numbers make sense.
func (c *Config) Validate() error {
	if c.Scan.Workers < 1 {
		return fmt.Errorf("scan.workers must be at least 1, not %d", c.Scan.Workers)
	}
	if c.Scan.MaxFiles < 0 {
		return fmt.Errorf("scan.max_files must not be negative, not %d", c.Scan.MaxFiles)
	}
	if c.Scan.MaxErrors < 1 {
		return fmt.Errorf("scan.max_errors must be at least 1, not %d", c.Scan.MaxErrors)
	}
	return nil
}
