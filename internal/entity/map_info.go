package entity

// MapInfo is the immutable metadata of one map. Entries are registered on
// room creation and live for the whole session.
type MapInfo struct {
	Name      string
	Width     int
	Height    int
	Start     Point
	End       *Point
	Obstacles map[Point]struct{}
	Portals   map[Point]string
}

// InBounds - reports whether the point lies within [0,width) x [0,height).
func (that *MapInfo) InBounds(point Point) bool {
	return point.X >= 0 && point.X < that.Width && point.Y >= 0 && point.Y < that.Height
}

// IsBorder - reports whether the point lies on the outermost row or column.
func (that *MapInfo) IsBorder(point Point) bool {
	return point.X == 0 || point.Y == 0 || point.X == that.Width-1 || point.Y == that.Height-1
}

// IsObstacle - reports whether the cell holds an obstacle.
func (that *MapInfo) IsObstacle(point Point) bool {
	_, ok := that.Obstacles[point]
	return ok
}

// PortalName - returns the linked map name when the cell is a portal.
func (that *MapInfo) PortalName(point Point) (string, bool) {
	name, ok := that.Portals[point]
	return name, ok
}
