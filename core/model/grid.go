package model

import (
	"fmt"
	"math"
)

// Cell addresses a single grid cell. X grows with real-world x, Y grows
// downward from the upper real-world boundary.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Geometry maps between the real-world frame (meters) and the discrete
// grid frame. The vertical axis is flipped between frames: grid row 0
// sits at the upper real-world boundary, matching the convention of the
// mocap space the sensor reports in.
type Geometry struct {
	Lower  Point `json:"lower"`
	Upper  Point `json:"upper"`
	Width  int   `json:"width"`
	Height int   `json:"height"`
}

// Validate checks the geometry is usable for prediction.
func (g Geometry) Validate() error {
	if g.Width < 2 || g.Height < 2 {
		return fmt.Errorf("grid dimensions must be at least 2x2, got %dx%d", g.Width, g.Height)
	}
	if g.Upper.X <= g.Lower.X || g.Upper.Y <= g.Lower.Y {
		return fmt.Errorf("grid upper bound %v must exceed lower bound %v", g.Upper, g.Lower)
	}
	return nil
}

// ResX returns the horizontal resolution in meters per cell.
func (g Geometry) ResX() float64 {
	return (g.Upper.X - g.Lower.X) / float64(g.Width-1)
}

// ResY returns the vertical resolution in meters per cell.
func (g Geometry) ResY() float64 {
	return (g.Upper.Y - g.Lower.Y) / float64(g.Height-1)
}

// Cells returns the total number of cells.
func (g Geometry) Cells() int {
	return g.Width * g.Height
}

// Index returns the row-major index of c.
func (g Geometry) Index(c Cell) int {
	return c.Y*g.Width + c.X
}

// CellAt returns the cell index of i.
func (g Geometry) CellAt(i int) Cell {
	return Cell{X: i % g.Width, Y: i / g.Width}
}

// Contains reports whether c lies within the grid.
func (g Geometry) Contains(c Cell) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// ToCell converts a real-world point to the nearest grid cell. Points
// outside the bounds are clamped onto the boundary.
func (g Geometry) ToCell(p Point) Cell {
	c := Cell{
		X: int(math.Round((p.X - g.Lower.X) / g.ResX())),
		Y: int(math.Round((g.Upper.Y - p.Y) / g.ResY())),
	}
	c.X = min(max(c.X, 0), g.Width-1)
	c.Y = min(max(c.Y, 0), g.Height-1)
	return c
}

// ToReal converts a grid cell to the real-world coordinate of its center.
func (g Geometry) ToReal(c Cell) Point {
	return Point{
		X: float64(c.X)*g.ResX() + g.Lower.X,
		Y: g.Upper.Y - float64(c.Y)*g.ResY(),
	}
}

// Dist returns the Euclidean distance between two cell centers in meters.
func (g Geometry) Dist(a, b Cell) float64 {
	dx := float64(a.X-b.X) * g.ResX()
	dy := float64(a.Y-b.Y) * g.ResY()
	return math.Hypot(dx, dy)
}
