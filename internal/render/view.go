package render

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/gridrunner-client/internal/entity"
)

// Cell glyphs, listed from highest to lowest precedence.
const (
	GlyphBorder   rune = '#'
	GlyphSelf     rune = 'P'
	GlyphStart    rune = 'S'
	GlyphEnd      rune = 'E'
	GlyphPortal   rune = 'O'
	GlyphObstacle rune = 'X'
	GlyphOther    rune = 'o'
	GlyphEmpty    rune = '.'
	GlyphFog      rune = ' '
)

// View - renders the current map as one string per row, top row first
// (y = height-1 down to 0). Returns nil when no map is current.
func View(state *entity.ClientState) []string {
	info, err := state.Current()
	if err != nil {
		return nil
	}

	rows := make([]string, 0, info.Height)

	for y := info.Height - 1; y >= 0; y-- {
		var row strings.Builder
		for x := 0; x < info.Width; x++ {
			row.WriteRune(cellGlyph(state, info, entity.Point{X: x, Y: y}))
		}
		rows = append(rows, row.String())
	}

	return rows
}

// Leaderboard - renders the stored leaderboard, one line per entry, in the
// exact order the server sent it.
func Leaderboard(state *entity.ClientState) []string {
	lines := make([]string, 0, len(state.Leaderboard)+1)
	lines = append(lines, "=== final results ===")

	for _, entry := range state.Leaderboard {
		lines = append(lines, fmt.Sprintf("%d. %s (%s) - distance %d",
			entry.Rank, entry.PlayerName, entry.PlayerID, entry.TotalDistance))
	}

	return lines
}

// Header - one status line with the map name, room id and own position.
func Header(state *entity.ClientState) string {
	return fmt.Sprintf("map: %s  room: %s  position: (%d,%d)",
		state.CurrentMap, state.RoomID, state.Position.X, state.Position.Y)
}

func cellGlyph(state *entity.ClientState, info *entity.MapInfo, cell entity.Point) rune {
	switch {
	case info.IsBorder(cell):
		return GlyphBorder
	case cell == state.Position:
		return GlyphSelf
	case cell == info.Start:
		return GlyphStart
	case info.End != nil && cell == *info.End:
		return GlyphEnd
	case hasPortal(info, cell):
		return GlyphPortal
	case info.IsObstacle(cell):
		return GlyphObstacle
	case hasOtherPlayer(state, cell):
		return GlyphOther
	case state.Visibility.IsRevealed(info.Name, cell):
		return GlyphEmpty
	default:
		return GlyphFog
	}
}

func hasPortal(info *entity.MapInfo, cell entity.Point) bool {
	_, ok := info.PortalName(cell)
	return ok
}

func hasOtherPlayer(state *entity.ClientState, cell entity.Point) bool {
	_, ok := state.Roster.At(cell)
	return ok
}
