package engine

import (
	"fmt"
	"time"

	"github.com/dronenav/humanpred/core/belief"
	"github.com/dronenav/humanpred/core/model"
)

// Config carries everything the engine needs for one human instance.
// It is assembled once at startup; there is no ambient process-wide
// state.
type Config struct {
	HumanID        string         `json:"human_id"`
	Mode           string         `json:"mode"`
	TickPeriod     time.Duration  `json:"tick_period"`
	DropoutTimeout time.Duration  `json:"dropout_timeout"`
	StepDelta      time.Duration  `json:"step_delta"`
	MaxSpeedMPS    float64        `json:"max_speed_mps"`
	Geometry       model.Geometry `json:"geometry"`
	Goals          []model.Goal   `json:"goals"`
	Horizon        int            `json:"horizon"`

	// Support is the discrete rationality (inverse temperature) grid
	// the belief lives on; Prior optionally weights it, defaulting to
	// uniform.
	Support []float64 `json:"support"`
	Prior   []float64 `json:"prior"`
}

// Validate reports the first configuration error. Configuration errors
// are fatal at startup; nothing here is recoverable at runtime.
func (c Config) Validate() error {
	if c.HumanID == "" {
		return fmt.Errorf("engine: human_id must not be empty")
	}
	if _, err := belief.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if c.TickPeriod <= 0 {
		return fmt.Errorf("engine: tick_period must be positive")
	}
	if c.DropoutTimeout <= 0 {
		return fmt.Errorf("engine: dropout_timeout must be positive")
	}
	if c.StepDelta <= 0 {
		return fmt.Errorf("engine: step_delta must be positive")
	}
	if c.Horizon <= 0 {
		return fmt.Errorf("engine: horizon must be positive")
	}
	if err := c.Geometry.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if len(c.Goals) == 0 {
		return fmt.Errorf("engine: goal set must not be empty")
	}
	if len(c.Support) == 0 {
		return fmt.Errorf("engine: rationality support must not be empty")
	}
	return nil
}
