package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gridrunner-client/internal/entity"
)

// viewState builds a session state on a 7x7 map with one obstacle, one
// portal and an end cell, with self standing on the start.
func viewState(t *testing.T) *entity.ClientState {
	t.Helper()

	end := entity.Point{X: 5, Y: 5}
	state := entity.NewClientState("TestUser1")
	state.RegisterMap(&entity.MapInfo{
		Name:      "m1",
		Width:     7,
		Height:    7,
		Start:     entity.Point{X: 2, Y: 2},
		End:       &end,
		Obstacles: map[entity.Point]struct{}{{X: 1, Y: 3}: {}},
		Portals:   map[entity.Point]string{{X: 3, Y: 1}: "m2"},
	})
	require.NoError(t, state.EnterMap("m1", entity.Point{X: 2, Y: 2}))

	return state
}

// glyphAt resolves the rendered rune at map coordinates, accounting for the
// top-row-first orientation.
func glyphAt(t *testing.T, rows []string, height, x, y int) rune {
	t.Helper()

	require.Len(t, rows, height)
	row := []rune(rows[height-1-y])
	require.Len(t, row, 7)

	return row[x]
}

func TestView(t *testing.T) {
	t.Run("Returns nil before any map is current", func(t *testing.T) {
		state := entity.NewClientState("TestUser1")

		assert.Nil(t, View(state))
	})

	t.Run("Renders the full border on the outer rows and columns", func(t *testing.T) {
		// Given: a freshly entered map
		state := viewState(t)

		// When: rendering
		rows := View(state)

		// Then: top and bottom rows are all border glyphs
		require.Len(t, rows, 7)
		assert.Equal(t, "#######", rows[0])
		assert.Equal(t, "#######", rows[6])
		for _, row := range rows {
			assert.Len(t, row, 7)
			assert.Equal(t, byte('#'), row[0])
			assert.Equal(t, byte('#'), row[6])
		}
	})

	t.Run("Draws self over the start cell", func(t *testing.T) {
		// Given: self standing on the start
		state := viewState(t)

		rows := View(state)

		// Then: the shared cell shows the player, not the start marker
		assert.Equal(t, GlyphSelf, glyphAt(t, rows, 7, 2, 2))
	})

	t.Run("Reveals the start marker after self moves away", func(t *testing.T) {
		// Given: self moved one cell right of the start
		state := viewState(t)
		require.NoError(t, state.MoveSelf(entity.Point{X: 3, Y: 2}))

		rows := View(state)

		// Then: both markers show on their own cells
		assert.Equal(t, GlyphSelf, glyphAt(t, rows, 7, 3, 2))
		assert.Equal(t, GlyphStart, glyphAt(t, rows, 7, 2, 2))
	})

	t.Run("Shows end, portal and obstacle regardless of fog", func(t *testing.T) {
		// Given: an end cell far outside the revealed area
		state := viewState(t)

		rows := View(state)

		// Then: static features pierce the fog
		assert.Equal(t, GlyphEnd, glyphAt(t, rows, 7, 5, 5))
		assert.Equal(t, GlyphPortal, glyphAt(t, rows, 7, 3, 1))
		assert.Equal(t, GlyphObstacle, glyphAt(t, rows, 7, 1, 3))
	})

	t.Run("Shows other players from the roster", func(t *testing.T) {
		// Given: another player on a fogged cell
		state := viewState(t)
		state.Roster.Upsert("p2", "other", entity.Point{X: 5, Y: 2})

		rows := View(state)

		assert.Equal(t, GlyphOther, glyphAt(t, rows, 7, 5, 2))
	})

	t.Run("Distinguishes revealed empty cells from fog", func(t *testing.T) {
		// Given: the entry neighborhood revealed around (2,2)
		state := viewState(t)

		rows := View(state)

		// Then: a revealed featureless cell is empty, an unrevealed one is fog
		assert.Equal(t, GlyphEmpty, glyphAt(t, rows, 7, 2, 3))
		assert.Equal(t, GlyphFog, glyphAt(t, rows, 7, 4, 4))
	})
}

func TestLeaderboard(t *testing.T) {
	t.Run("Renders the entries in server order under a header", func(t *testing.T) {
		// Given: a leaderboard stored as received
		state := entity.NewClientState("TestUser1")
		state.Leaderboard = []entity.LeaderboardEntry{
			{Rank: 1, PlayerID: "p2", PlayerName: "other", TotalDistance: 17},
			{Rank: 2, PlayerID: "p1", PlayerName: "TestUser1", TotalDistance: 21},
		}

		// When: rendering
		lines := Leaderboard(state)

		// Then: header first, then one line per entry, order untouched
		require.Len(t, lines, 3)
		assert.Equal(t, "=== final results ===", lines[0])
		assert.Equal(t, "1. other (p2) - distance 17", lines[1])
		assert.Equal(t, "2. TestUser1 (p1) - distance 21", lines[2])
	})

	t.Run("Renders only the header when no results arrived", func(t *testing.T) {
		state := entity.NewClientState("TestUser1")

		lines := Leaderboard(state)

		require.Len(t, lines, 1)
		assert.Equal(t, "=== final results ===", lines[0])
	})
}

func TestHeader(t *testing.T) {
	t.Run("Carries the map name, room id and position", func(t *testing.T) {
		state := viewState(t)
		state.RoomID = "r1"

		header := Header(state)

		assert.Contains(t, header, "m1")
		assert.Contains(t, header, "r1")
		assert.Contains(t, header, "(2,2)")
	})
}
