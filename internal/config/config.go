package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/ivlev/storyrig/internal/effects"
)

// Config is shared by the command-line tools. Load fills it from STORYRIG_*
// environment variables; flags then override individual fields.
type Config struct {
	TimelinePath string `envconfig:"TIMELINE"`
	TimelineDir  string `envconfig:"TIMELINE_DIR" default:"input/timelines"`
	AssetsPath   string `envconfig:"ASSETS"`
	AudioPath    string `envconfig:"AUDIO"`
	AudioDir     string `envconfig:"AUDIO_DIR" default:"input/audio"`
	OutputDir    string `envconfig:"OUTPUT_DIR" default:"output"`

	Width   int    `envconfig:"WIDTH" default:"1920"`
	Height  int    `envconfig:"HEIGHT" default:"1080"`
	FPS     int    `envconfig:"FPS" default:"30"`
	Preset  string `envconfig:"PRESET"`
	Workers int    `envconfig:"WORKERS"`

	Effects string `envconfig:"EFFECTS" default:"subtle"`
	Mood    string `envconfig:"MOOD"`

	// From and To bound the rendered frames [From, To); To 0 means the end
	// of the timeline.
	From int `envconfig:"FROM"`
	To   int `envconfig:"TO"`

	AllowOverlap bool `envconfig:"ALLOW_OVERLAP"`
	Commands     bool `envconfig:"COMMANDS"`
	ShowStats    bool `envconfig:"SHOW_STATS"`
	Port         int  `envconfig:"PORT" default:"8090"`

	BuildVersion string `ignored:"true"`
}

// Load reads the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("storyrig", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyPreset replaces Width and Height with the named output format.
func (c *Config) ApplyPreset() error {
	switch c.Preset {
	case "":
	case "16:9":
		c.Width, c.Height = 1920, 1080
	case "9:16":
		c.Width, c.Height = 1080, 1920
	case "4:5":
		c.Width, c.Height = 1080, 1350
	default:
		return fmt.Errorf("unknown format preset %q (want 16:9, 9:16 or 4:5)", c.Preset)
	}
	return nil
}

// EffectsConfig returns the effects selection.
func (c *Config) EffectsConfig() effects.Config {
	return effects.Config{Preset: c.Effects, Mood: c.Mood}
}
