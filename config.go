package journal

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config controls the pipeline, the durable document store, and the mirror
// logger. All fields can be set from a TOML file via LoadConfig.
type Config struct {
	// Directory holds the document file and mirror log. Created if missing.
	Directory string `json:"directory" toml:"directory" validate:"required"`
	// FileName is the document file name inside Directory.
	FileName string `json:"file_name" toml:"file_name" validate:"required"`
	// DefaultTopic is the topic bound to handles acquired without one.
	DefaultTopic string `json:"default_topic" toml:"default_topic" validate:"required"`

	// FlushCount triggers a durable flush once this many messages are
	// buffered. Together with FlushIntervalMS this replaces per-message
	// writes with a bounded batching window: a message is durable after at
	// most FlushCount-1 successors or FlushIntervalMS milliseconds,
	// whichever comes first. Panics and shutdown always force a flush.
	FlushCount int `json:"flush_count" toml:"flush_count" validate:"gte=1"`
	// FlushIntervalMS is the periodic flush tick in milliseconds.
	FlushIntervalMS int64 `json:"flush_interval_ms" toml:"flush_interval_ms" validate:"gte=1"`

	// ConsoleMirror echoes every message to stderr in console format.
	ConsoleMirror bool `json:"console_mirror" toml:"console_mirror"`
	// FileMirror echoes every message to a rolling plain-text log file.
	FileMirror        bool   `json:"file_mirror" toml:"file_mirror"`
	MirrorLevel       string `json:"mirror_level" toml:"mirror_level" validate:"required"`
	MirrorMaxSizeMB   int    `json:"mirror_max_size_mb" toml:"mirror_max_size_mb" validate:"gte=1"`
	MirrorMaxBackups  int    `json:"mirror_max_backups" toml:"mirror_max_backups" validate:"gte=0"`
	MirrorMaxAgeDays  int    `json:"mirror_max_age_days" toml:"mirror_max_age_days" validate:"gte=0"`
	ShutdownTimeoutMS int64  `json:"shutdown_timeout_ms" toml:"shutdown_timeout_ms" validate:"gte=0"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() *Config {
	return &Config{
		Directory:         ".",
		FileName:          defaultFileName,
		DefaultTopic:      defaultTopic,
		FlushCount:        16,
		FlushIntervalMS:   200,
		ConsoleMirror:     false,
		FileMirror:        false,
		MirrorLevel:       "debug",
		MirrorMaxSizeMB:   10,
		MirrorMaxBackups:  3,
		MirrorMaxAgeDays:  7,
		ShutdownTimeoutMS: 2000,
	}
}

// LoadConfig reads a TOML file over the defaults, so partial files are valid.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) flushInterval() time.Duration {
	return time.Duration(c.FlushIntervalMS) * time.Millisecond
}

func (c *Config) shutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}
