package model

import (
	"math"
	"time"
)

// Sample is a raw position measurement reported by the tracking sensor.
type Sample struct {
	HumanID string    `json:"human_id"`
	X       float64   `json:"x"`
	Y       float64   `json:"y"`
	Time    time.Time `json:"time"`
}

// Position returns the sample coordinate as a Point.
func (s Sample) Position() Point {
	return Point{X: s.X, Y: s.Y}
}

// Point is a 2D coordinate in the real-world frame, in meters.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns the vector p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// HumanState is a filtered position and velocity estimate at a point in
// time. States are immutable: each accepted sample produces a new value
// that supersedes the previous one.
type HumanState struct {
	Position Point     `json:"position"`
	Velocity Point     `json:"velocity"`
	Time     time.Time `json:"time"`
}

// Speed returns the magnitude of the velocity in m/s.
func (s HumanState) Speed() float64 {
	return math.Hypot(s.Velocity.X, s.Velocity.Y)
}
