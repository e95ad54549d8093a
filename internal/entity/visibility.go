package entity

// Visibility tracks the revealed cells of every map the session has seen.
// Revealed sets only grow; there is no forgetting.
type Visibility struct {
	seen map[string]map[Point]struct{}
}

func NewVisibility() *Visibility {
	return &Visibility{
		seen: make(map[string]map[Point]struct{}),
	}
}

// RevealNeighborhood - adds the in-bounds cells of the 3x3 block centered
// on the given position to the map's revealed set.
func (that *Visibility) RevealNeighborhood(info *MapInfo, center Point) {
	cells := that.ensure(info.Name)

	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			cell := Point{X: center.X + dx, Y: center.Y + dy}
			if info.InBounds(cell) {
				cells[cell] = struct{}{}
			}
		}
	}
}

// RevealBorder - adds every cell of row 0, row height-1, column 0 and
// column width-1 to the map's revealed set. Border cells stay visible even
// in otherwise unexplored territory so the player never loses orientation.
func (that *Visibility) RevealBorder(info *MapInfo) {
	cells := that.ensure(info.Name)

	for x := 0; x < info.Width; x++ {
		cells[Point{X: x, Y: 0}] = struct{}{}
		cells[Point{X: x, Y: info.Height - 1}] = struct{}{}
	}

	for y := 0; y < info.Height; y++ {
		cells[Point{X: 0, Y: y}] = struct{}{}
		cells[Point{X: info.Width - 1, Y: y}] = struct{}{}
	}
}

// IsRevealed - reports whether the cell has been revealed on the map.
func (that *Visibility) IsRevealed(mapName string, cell Point) bool {
	_, ok := that.seen[mapName][cell]
	return ok
}

// Count - returns the number of revealed cells on the map.
func (that *Visibility) Count(mapName string) int {
	return len(that.seen[mapName])
}

func (that *Visibility) ensure(mapName string) map[Point]struct{} {
	cells, ok := that.seen[mapName]
	if !ok {
		cells = make(map[Point]struct{})
		that.seen[mapName] = cells
	}

	return cells
}
