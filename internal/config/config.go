package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Extractor backends
const (
	BackendYTDLP  = "ytdlp"
	BackendNative = "native"
)

// Limits
const (
	MinParallel   = 1
	MaxParallel   = 10
	MinBitrate    = 32
	MaxBitrate    = 320
	DefaultConfig = "yt-audio.yaml"
)

// Config is the user configuration supplied by file, environment, or flags.
// Environment variables override values read from the file.
type Config struct {
	OutputDir   string `yaml:"output_dir" env:"YTAUDIO_OUTPUT_DIR"`
	Backend     string `yaml:"backend" env:"YTAUDIO_BACKEND" env-default:"ytdlp"`
	BitrateKbps int    `yaml:"bitrate" env:"YTAUDIO_BITRATE" env-default:"192"`
	MaxParallel int    `yaml:"max_parallel" env:"YTAUDIO_MAX_PARALLEL" env-default:"1"`
	YTDLPPath   string `yaml:"ytdlp_path" env:"YTAUDIO_YTDLP_PATH"`
	FFmpegPath  string `yaml:"ffmpeg_path" env:"YTAUDIO_FFMPEG_PATH" env-default:"ffmpeg"`
	FFprobePath string `yaml:"ffprobe_path" env:"YTAUDIO_FFPROBE_PATH" env-default:"ffprobe"`
	Album       string `yaml:"album" env:"YTAUDIO_ALBUM" env-default:"YouTube"`
	Verify      bool   `yaml:"verify" env:"YTAUDIO_VERIFY" env-default:"false"`
	LogLevel    string `yaml:"log_level" env:"YTAUDIO_LOG_LEVEL" env-default:"info"`
}

// Load reads configPath (YAML) when given, otherwise the environment only,
// and validates the result.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	if configPath != "" {
		if err := cleanenv.ReadConfig(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load configuration from %s - %v", configPath, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration from environment - %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate clamps parallelism and rejects values no backend can honour
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendYTDLP, BackendNative:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendYTDLP, BackendNative)
	}

	if c.BitrateKbps < MinBitrate || c.BitrateKbps > MaxBitrate {
		return fmt.Errorf("bitrate %d kbps out of range %d-%d", c.BitrateKbps, MinBitrate, MaxBitrate)
	}

	if c.MaxParallel < MinParallel {
		c.MaxParallel = MinParallel
	}
	if c.MaxParallel > MaxParallel {
		c.MaxParallel = MaxParallel
	}
	return nil
}

// Usage describes the environment variables understood by Load
func Usage() string {
	cfg := &Config{}
	desc, err := cleanenv.GetDescription(cfg, nil)
	if err != nil {
		return ""
	}
	return desc
}
