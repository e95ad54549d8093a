package entity

// Point is a cell coordinate on a map grid. The origin is the bottom-left
// corner; y grows upward.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add - returns the point shifted by the given delta.
func (that Point) Add(delta Point) Point {
	return Point{X: that.X + delta.X, Y: that.Y + delta.Y}
}
