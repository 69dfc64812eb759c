package core

// Position2D represents a raw world-space coordinate in game-engine units
type Position2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
