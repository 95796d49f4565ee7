package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/dronenav/humanpred/core/engine"
	"github.com/dronenav/humanpred/core/metrics"
	"github.com/dronenav/humanpred/core/model"
	"github.com/dronenav/humanpred/infra/mqtt"
)

type Config struct {
	MQTT       mqtt.Config      `json:"mqtt"`
	Engine     EngineConfig     `json:"engine"`
	Grid       GridConfig       `json:"grid"`
	Prediction PredictionConfig `json:"prediction"`
	Goals      []model.Goal     `json:"goals"`
	Metrics    metrics.Config   `json:"metrics"`
	Logging    LoggingConfig    `json:"logging"`
	Sentry     SentryConfig     `json:"sentry"`
}

// EngineConfig covers the per-human tracking and tick settings.
type EngineConfig struct {
	HumanID          string  `json:"human_id"`
	Mode             string  `json:"mode"`
	TickPeriodMS     int     `json:"tick_period_ms"`
	DropoutTimeoutMS int     `json:"dropout_timeout_ms"`
	MaxSpeedMPS      float64 `json:"max_speed_mps"`
}

// GridConfig describes the occupancy grid geometry in real-world meters.
type GridConfig struct {
	Lower  model.Point `json:"lower"`
	Upper  model.Point `json:"upper"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
}

// PredictionConfig covers the forecast horizon and the rationality
// support the belief lives on.
type PredictionConfig struct {
	Horizon     int       `json:"horizon"`
	StepDeltaMS int       `json:"step_delta_ms"`
	Betas       []float64 `json:"betas"`
	Prior       []float64 `json:"prior"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("HP_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "hp_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Logging.SetDefaults()
	cfg.SetDefaults()
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.EngineConfig().Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills in the prediction defaults used when a section is
// omitted from the file.
func (c *Config) SetDefaults() {
	if c.Engine.Mode == "" {
		c.Engine.Mode = "adaptive"
	}
	if c.Engine.TickPeriodMS == 0 {
		c.Engine.TickPeriodMS = 500
	}
	if c.Engine.DropoutTimeoutMS == 0 {
		c.Engine.DropoutTimeoutMS = 2000
	}
	if c.Engine.MaxSpeedMPS == 0 {
		c.Engine.MaxSpeedMPS = 4
	}
	if c.Prediction.Horizon == 0 {
		c.Prediction.Horizon = 5
	}
	if c.Prediction.StepDeltaMS == 0 {
		c.Prediction.StepDeltaMS = c.Engine.TickPeriodMS
	}
	if len(c.Prediction.Betas) == 0 {
		c.Prediction.Betas = []float64{0.05, 0.3, 1, 3, 10}
	}
}

// EngineConfig assembles the engine configuration from the file
// sections. Validation happens on the assembled value so every
// constraint lives in one place.
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		HumanID:        c.Engine.HumanID,
		Mode:           c.Engine.Mode,
		TickPeriod:     time.Duration(c.Engine.TickPeriodMS) * time.Millisecond,
		DropoutTimeout: time.Duration(c.Engine.DropoutTimeoutMS) * time.Millisecond,
		StepDelta:      time.Duration(c.Prediction.StepDeltaMS) * time.Millisecond,
		MaxSpeedMPS:    c.Engine.MaxSpeedMPS,
		Geometry: model.Geometry{
			Lower:  c.Grid.Lower,
			Upper:  c.Grid.Upper,
			Width:  c.Grid.Width,
			Height: c.Grid.Height,
		},
		Goals:   c.Goals,
		Horizon: c.Prediction.Horizon,
		Support: c.Prediction.Betas,
		Prior:   c.Prediction.Prior,
	}
}
