package config

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
)

// Struct to hold the configuration
type Config struct {
	Input    Input    `mapstructure:"input"`
	Source   Source   `mapstructure:"source"`
	Sampling Sampling `mapstructure:"sampling"`
	Enhance  Enhance  `mapstructure:"enhance"`
	Output   Output   `mapstructure:"output"`
	Log      Log      `mapstructure:"log"`
	Monitor  Monitor  `mapstructure:"monitor"`
}

type Input struct {
	Path string `mapstructure:"path"`
}

type Source struct {
	Backend string `mapstructure:"backend"`
}

type Sampling struct {
	TargetFPS  float64 `mapstructure:"target_fps"`
	DefaultFPS float64 `mapstructure:"default_fps"`
}

type Enhance struct {
	Width     int     `mapstructure:"width"`
	Height    int     `mapstructure:"height"`
	ClipLimit float64 `mapstructure:"clip_limit"`
	TileGrid  int     `mapstructure:"tile_grid"`
}

type Output struct {
	InterimRoot   string `mapstructure:"interim_root"`
	Dir           string `mapstructure:"dir"`
	JPEGQuality   int    `mapstructure:"jpeg_quality"`
	ProgressEvery int    `mapstructure:"progress_every"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Monitor struct {
	Port int `mapstructure:"port"`
}

const (
	BackendOpenCV = "opencv"
	BackendFFmpeg = "ffmpeg"
)

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Input:  Input{Path: "data/raw/1.mp4"},
		Source: Source{Backend: BackendOpenCV},
		Sampling: Sampling{
			TargetFPS:  15,
			DefaultFPS: 30,
		},
		Enhance: Enhance{
			Width:     1280,
			Height:    720,
			ClipLimit: 2.0,
			TileGrid:  8,
		},
		Output: Output{
			InterimRoot:   "data/interim",
			JPEGQuality:   95,
			ProgressEvery: 100,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

func (c Config) Validate() error {
	if c.Input.Path == "" {
		return errors.Wrap(ErrInvalidConfig, "input.path is empty")
	}
	switch c.Source.Backend {
	case BackendOpenCV, BackendFFmpeg:
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown source.backend %q", c.Source.Backend)
	}
	if c.Sampling.TargetFPS <= 0 || c.Sampling.DefaultFPS <= 0 {
		return errors.Wrap(ErrInvalidConfig, "sampling rates must be positive")
	}
	if c.Enhance.Width <= 0 || c.Enhance.Height <= 0 {
		return errors.Wrap(ErrInvalidConfig, fmt.Sprintf("enhance size %dx%d", c.Enhance.Width, c.Enhance.Height))
	}
	if c.Enhance.ClipLimit <= 0 || c.Enhance.TileGrid <= 0 {
		return errors.Wrap(ErrInvalidConfig, "clahe clip_limit and tile_grid must be positive")
	}
	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		return errors.Wrapf(ErrInvalidConfig, "jpeg_quality %d out of 1..100", c.Output.JPEGQuality)
	}
	if c.Output.ProgressEvery <= 0 {
		return errors.Wrap(ErrInvalidConfig, "progress_every must be positive")
	}
	if c.Monitor.Port < 0 {
		return errors.Wrapf(ErrInvalidConfig, "monitor.port %d", c.Monitor.Port)
	}
	return nil
}
