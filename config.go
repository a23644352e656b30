package wilt

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is wilt's tunable state, loaded from TOML:
//
//	[probe]
//	max_distance = 2.0
//	margin = 0.0625
//	world_raycast = false
//	doublesided = true
//
//	[animation]
//	frames_per_second = 24.0
//	play_speed = 1.0
//	finish_mode = "loop"
//
//	[collision]
//	grid_cells = 8
//
//	[runtime]
//	workers = 0
type Config struct {
	Probe     ProbeConfig     `toml:"probe"`
	Animation AnimationConfig `toml:"animation"`
	Collision CollisionConfig `toml:"collision"`
	Runtime   RuntimeConfig   `toml:"runtime"`
}

// ProbeConfig is the [probe] section, mirroring ProbeSettings.
type ProbeConfig struct {
	MaxDistance  float32 `toml:"max_distance"`
	Margin       float32 `toml:"margin"`
	WorldRaycast bool    `toml:"world_raycast"`
	Doublesided  bool    `toml:"doublesided"`
}

// AnimationConfig is the [animation] section, copied onto Animators by ApplyTo.
type AnimationConfig struct {
	FramesPerSecond float32    `toml:"frames_per_second"`
	PlaySpeed       float32    `toml:"play_speed"`
	FinishMode      FinishMode `toml:"finish_mode"`
}

// CollisionConfig is the [collision] section. GridCells sizes the Broadphase of collision meshes.
type CollisionConfig struct {
	GridCells int `toml:"grid_cells"`
}

// RuntimeConfig is the [runtime] section. Workers bounds how many entities DeformAll reshapes at once.
type RuntimeConfig struct {
	Workers int `toml:"workers"` // 0 uses GOMAXPROCS
}

// DefaultConfig returns the Config used when no file overrides it.
func DefaultConfig() Config {
	return Config{
		Probe: ProbeConfig{
			MaxDistance: DefaultMaxProbeDistance,
			Margin:      DefaultProbeMargin,
			Doublesided: true,
		},
		Animation: AnimationConfig{
			FramesPerSecond: DefaultFramesPerSecond,
			PlaySpeed:       1,
			FinishMode:      FinishModeLoop,
		},
		Collision: CollisionConfig{
			GridCells: 8,
		},
	}
}

// ParseConfig parses TOML data over DefaultConfig, so keys left out keep their defaults. Unknown keys are an error.
func ParseConfig(data []byte) (Config, error) {

	cfg := DefaultConfig()

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("config: unknown keys:\n%s", strict.String())
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil

}

// LoadConfig reads and parses the TOML config file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every value in the Config is usable.
func (cfg Config) Validate() error {
	var errs []error
	if cfg.Probe.MaxDistance <= 0 {
		errs = append(errs, fmt.Errorf("probe.max_distance must be positive, got %v", cfg.Probe.MaxDistance))
	}
	if cfg.Probe.Margin < 0 {
		errs = append(errs, fmt.Errorf("probe.margin must not be negative, got %v", cfg.Probe.Margin))
	}
	if cfg.Animation.FramesPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("animation.frames_per_second must be positive, got %v", cfg.Animation.FramesPerSecond))
	}
	if cfg.Collision.GridCells < 1 {
		errs = append(errs, fmt.Errorf("collision.grid_cells must be at least 1, got %d", cfg.Collision.GridCells))
	}
	if cfg.Runtime.Workers < 0 {
		errs = append(errs, fmt.Errorf("runtime.workers must not be negative, got %d", cfg.Runtime.Workers))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Marshal returns the Config as TOML.
func (cfg Config) Marshal() ([]byte, error) {
	return toml.Marshal(cfg)
}

// ProbeSettings returns the probe section as ProbeSettings.
func (cfg Config) ProbeSettings() ProbeSettings {
	return ProbeSettings{
		MaxDistance:  cfg.Probe.MaxDistance,
		Margin:       cfg.Probe.Margin,
		WorldRaycast: cfg.Probe.WorldRaycast,
		Doublesided:  cfg.Probe.Doublesided,
	}
}

// ApplyTo copies the animation section onto an Animator.
func (cfg Config) ApplyTo(anim *Animator) {
	anim.FramesPerSecond = cfg.Animation.FramesPerSecond
	anim.PlaySpeed = cfg.Animation.PlaySpeed
	anim.FinishMode = cfg.Animation.FinishMode
}
