package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

const FileName = "colorharmony.config"

// Duration is a time.Duration written as a Go duration string ("1s",
// "500ms") in the config file and in environment variables.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

type Config struct {
	DataDir       string   `json:"data_dir" env:"COLORHARMONY_DATA_DIR"`
	LogLevel      string   `json:"log_level" env:"COLORHARMONY_LOG_LEVEL"`
	LogConsole    bool     `json:"log_console" env:"COLORHARMONY_LOG_CONSOLE"`
	DetectDelay   Duration `json:"detect_delay" env:"COLORHARMONY_DETECT_DELAY"`
	AdjustDelay   Duration `json:"adjust_delay" env:"COLORHARMONY_ADJUST_DELAY"`
	ImageTTL      Duration `json:"image_ttl" env:"COLORHARMONY_IMAGE_TTL"`
	SweepInterval Duration `json:"sweep_interval" env:"COLORHARMONY_SWEEP_INTERVAL"`
	MaxImageBytes int      `json:"max_image_bytes" env:"COLORHARMONY_MAX_IMAGE_BYTES"`
	// Seed for tone detection; 0 seeds randomly.
	Seed uint64 `json:"seed,omitempty" env:"COLORHARMONY_SEED"`
}

func Default() Config {
	return Config{
		DataDir:       ".",
		LogLevel:      "info",
		LogConsole:    true,
		DetectDelay:   Duration(time.Second),
		AdjustDelay:   Duration(500 * time.Millisecond),
		ImageTTL:      Duration(30 * time.Minute),
		SweepInterval: Duration(time.Minute),
		MaxImageBytes: 20 << 20,
	}
}

// Load reads the config file from dataDir, falling back to defaults when it
// does not exist, then applies environment overrides (a .env file in the
// working directory is honoured if present).
func Load(dataDir string) (Config, error) {
	cfg, err := loadFile(dataDir)
	if err != nil {
		return Config{}, err
	}

	_ = godotenv.Load()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(dataDir string) (Config, error) {
	cfgPath := filepath.Join(dataDir, FileName)

	f, err := os.Open(cfgPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.DataDir = dataDir
			return cfg, nil
		}
		return Config{}, err
	}
	defer f.Close()

	// Start from defaults so keys missing from the file keep their default.
	cfg := Default()
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", cfgPath, err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.DetectDelay < 0:
		return fmt.Errorf("detect_delay must not be negative")
	case c.AdjustDelay < 0:
		return fmt.Errorf("adjust_delay must not be negative")
	case c.ImageTTL < 0:
		return fmt.Errorf("image_ttl must not be negative")
	case c.SweepInterval < 0:
		return fmt.Errorf("sweep_interval must not be negative")
	case c.MaxImageBytes < 0:
		return fmt.Errorf("max_image_bytes must not be negative")
	}
	return nil
}

func Save(cfg Config) error {
	cfgPath := filepath.Join(cfg.DataDir, FileName)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}

	tmp := cfgPath + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, cfgPath)
}
