package simulator

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dronenav/humanpred/core/model"
)

// Scenario describes one simulated pedestrian run, loaded from a YAML
// file.
type Scenario struct {
	HumanID   string      `yaml:"human_id"`
	Broker    string      `yaml:"broker"`
	RateHz    float64     `yaml:"rate_hz"`
	DurationS float64     `yaml:"duration_s"`
	JitterStd float64     `yaml:"jitter_std"`
	Seed      int64       `yaml:"seed"`
	Start     scenarioPt  `yaml:"start"`
	Goals     []scenarioPt `yaml:"goals"`
}

type scenarioPt struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	s.setDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) setDefaults() {
	if s.RateHz == 0 {
		s.RateHz = 10
	}
	if s.DurationS == 0 {
		s.DurationS = 60
	}
}

// Validate checks mandatory fields.
func (s Scenario) Validate() error {
	if s.HumanID == "" {
		return fmt.Errorf("scenario: human_id is required")
	}
	if len(s.Goals) == 0 {
		return fmt.Errorf("scenario: at least one goal is required")
	}
	if s.RateHz <= 0 {
		return fmt.Errorf("scenario: rate_hz must be positive")
	}
	if s.DurationS <= 0 {
		return fmt.Errorf("scenario: duration_s must be positive")
	}
	return nil
}

// Walker builds the LinearWalker for this scenario.
func (s Scenario) Walker() (*LinearWalker, error) {
	goals := make([]model.Point, len(s.Goals))
	for i, g := range s.Goals {
		goals[i] = model.Point{X: g.X, Y: g.Y}
	}
	return NewLinearWalker(
		model.Point{X: s.Start.X, Y: s.Start.Y},
		goals,
		time.Duration(s.DurationS*float64(time.Second)),
		s.JitterStd,
		s.Seed,
	)
}

// Interval returns the emission period derived from the sample rate.
func (s Scenario) Interval() time.Duration {
	return time.Duration(float64(time.Second) / s.RateHz)
}
