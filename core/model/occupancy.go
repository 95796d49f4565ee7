package model

import (
	"time"

	"gonum.org/v1/gonum/floats"
)

// OccupancyGrid holds the probability that the human occupies each cell
// at one future timestep. Data is row-major over the geometry.
type OccupancyGrid struct {
	Step int       `json:"step"`
	Data []float64 `json:"data"`
}

// NewOccupancyGrid allocates a zeroed grid for the given geometry.
func NewOccupancyGrid(geom Geometry, step int) OccupancyGrid {
	return OccupancyGrid{Step: step, Data: make([]float64, geom.Cells())}
}

// Mass returns the total probability mass of the slice.
func (o OccupancyGrid) Mass() float64 {
	return floats.Sum(o.Data)
}

// Clone returns a deep copy of the grid.
func (o OccupancyGrid) Clone() OccupancyGrid {
	cp := make([]float64, len(o.Data))
	copy(cp, o.Data)
	return OccupancyGrid{Step: o.Step, Data: cp}
}

// PredictionOutput is one tick's forecast: an ordered sequence of
// occupancy slices for steps 1..Horizon. It is recomputed from scratch
// each tick and immutable once published.
type PredictionOutput struct {
	ID        string          `json:"id"`
	HumanID   string          `json:"human_id"`
	SessionID string          `json:"session_id"`
	Computed  time.Time       `json:"computed"`
	Horizon   int             `json:"horizon"`
	StepDelta time.Duration   `json:"step_delta"`
	Geometry  Geometry        `json:"geometry"`
	Slices    []OccupancyGrid `json:"slices"`
}
