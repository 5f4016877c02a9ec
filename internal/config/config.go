package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/noisefield/internal/anim"
	"github.com/san-kum/noisefield/internal/cache"
	"github.com/san-kum/noisefield/internal/mouse"
	"github.com/san-kum/noisefield/internal/noise"
	"github.com/san-kum/noisefield/internal/render"
)

const (
	DefaultFPS               = 30
	DefaultSizeCheckInterval = 30
	DefaultSource            = "perlin"
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	// Width and Height of the field in cells; 0 follows the terminal.
	Width             int            `yaml:"width"`
	Height            int            `yaml:"height"`
	FPS               int            `yaml:"fps"`
	SizeCheckInterval int            `yaml:"size_check_interval"`
	Noise             NoiseConfig    `yaml:"noise"`
	Cache             CacheConfig    `yaml:"cache"`
	Render            RenderConfig   `yaml:"render"`
	Exposure          ExposureConfig `yaml:"exposure"`
	Input             InputConfig    `yaml:"input"`
}

type NoiseConfig struct {
	Source string `yaml:"source"`
	Seed   int64  `yaml:"seed"`
}

type CacheConfig struct {
	Precision     int     `yaml:"precision"`
	MaxSize       int     `yaml:"max_size"`
	EvictFraction float64 `yaml:"evict_fraction"`
}

type RenderConfig struct {
	XDensity float64 `yaml:"x_density"`
	YDensity float64 `yaml:"y_density"`
	Workers  int     `yaml:"workers"`
}

type ExposureConfig struct {
	Slope     float64 `yaml:"slope"`
	Intercept float64 `yaml:"intercept"`
	Cadence   int     `yaml:"cadence"`
}

type InputConfig struct {
	MoveCode      int     `yaml:"move_code"`
	WheelUpCode   int     `yaml:"wheel_up_code"`
	WheelDownCode int     `yaml:"wheel_down_code"`
	WheelStep     float64 `yaml:"wheel_step"`
	VelocityGain  float64 `yaml:"velocity_gain"`
}

func DefaultConfig() *Config {
	codes := mouse.DefaultCodes()
	return &Config{
		FPS:               DefaultFPS,
		SizeCheckInterval: DefaultSizeCheckInterval,
		Noise:             NoiseConfig{Source: DefaultSource},
		Cache: CacheConfig{
			Precision:     cache.DefaultPrecision,
			MaxSize:       cache.DefaultMaxSize,
			EvictFraction: cache.DefaultEvictFraction,
		},
		Render: RenderConfig{
			XDensity: render.DefaultXDensity,
			YDensity: render.DefaultYDensity,
			Workers:  1,
		},
		Exposure: ExposureConfig{
			Slope:     anim.DefaultSlope,
			Intercept: anim.DefaultIntercept,
			Cadence:   anim.DefaultCadence,
		},
		Input: InputConfig{
			MoveCode:      codes.Move,
			WheelUpCode:   codes.WheelUp,
			WheelDownCode: codes.WheelDown,
			WheelStep:     anim.DefaultWheelStep,
			VelocityGain:  anim.DefaultVelocityGain,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func invalid(field string, v any) error {
	return fmt.Errorf("%w: %s = %v", ErrInvalid, field, v)
}

// Validate reports the first out-of-range field.
func (c *Config) Validate() error {
	switch {
	case c.Width < 0:
		return invalid("width", c.Width)
	case c.Height < 0:
		return invalid("height", c.Height)
	case c.FPS <= 0:
		return invalid("fps", c.FPS)
	case c.SizeCheckInterval <= 0:
		return invalid("size_check_interval", c.SizeCheckInterval)
	case c.Cache.Precision < 0 || c.Cache.Precision > 6:
		return invalid("cache.precision", c.Cache.Precision)
	case c.Cache.MaxSize <= 0:
		return invalid("cache.max_size", c.Cache.MaxSize)
	case !(c.Cache.EvictFraction > 0 && c.Cache.EvictFraction <= 1):
		return invalid("cache.evict_fraction", c.Cache.EvictFraction)
	case !(c.Render.XDensity > 0):
		return invalid("render.x_density", c.Render.XDensity)
	case !(c.Render.YDensity > 0):
		return invalid("render.y_density", c.Render.YDensity)
	case c.Render.Workers < 1:
		return invalid("render.workers", c.Render.Workers)
	case c.Exposure.Cadence <= 0:
		return invalid("exposure.cadence", c.Exposure.Cadence)
	}
	if _, err := noise.FromName(c.Noise.Source, c.Noise.Seed); err != nil {
		return fmt.Errorf("%w: noise.source: %v", ErrInvalid, err)
	}
	return nil
}

func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Precision:     c.Cache.Precision,
		MaxSize:       c.Cache.MaxSize,
		EvictFraction: c.Cache.EvictFraction,
	}
}

func (c *Config) RenderOptions(width, height int) render.Options {
	return render.Options{
		Width:    width,
		Height:   height,
		XDensity: c.Render.XDensity,
		YDensity: c.Render.YDensity,
		Workers:  c.Render.Workers,
		Cache:    c.CacheOptions(),
	}
}

func (c *Config) AnimParams() anim.Params {
	return anim.Params{
		Slope:        c.Exposure.Slope,
		Intercept:    c.Exposure.Intercept,
		WheelStep:    c.Input.WheelStep,
		VelocityGain: c.Input.VelocityGain,
		Cadence:      c.Exposure.Cadence,
	}
}

func (c *Config) MouseCodes() mouse.Codes {
	return mouse.Codes{
		Move:      c.Input.MoveCode,
		WheelUp:   c.Input.WheelUpCode,
		WheelDown: c.Input.WheelDownCode,
	}
}

func (c *Config) NoiseSource() (noise.Source, error) {
	return noise.FromName(c.Noise.Source, c.Noise.Seed)
}
