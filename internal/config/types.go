package config

import (
	"path/filepath"
	"time"
)

// Config is the top-level textlens configuration, corresponding to .textlens.yml.
type Config struct {
	APIURL            string   `yaml:"api_url" koanf:"api_url"`
	TimeoutSeconds    int      `yaml:"timeout_seconds" koanf:"timeout_seconds"`
	MaxTextLength     int      `yaml:"max_text_length" koanf:"max_text_length"`
	DataDir           string   `yaml:"data_dir" koanf:"data_dir"`
	Port              int      `yaml:"port" koanf:"port"`
	AllowAllOrigins   bool     `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	RequestsPerMinute int      `yaml:"requests_per_minute" koanf:"requests_per_minute"`
	SaveHistory       bool     `yaml:"save_history" koanf:"save_history"`
	Metrics           bool     `yaml:"metrics" koanf:"metrics"`
	AllowedExtensions []string `yaml:"allowed_extensions" koanf:"allowed_extensions"`
	MaxFileSize       int64    `yaml:"max_file_size" koanf:"max_file_size"`
}

// Timeout returns the detector request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DBPath returns the location of the history database.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "history.db")
}
