package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoster_Upsert(t *testing.T) {
	t.Run("Creates an entry with the id as placeholder name", func(t *testing.T) {
		// Given: an empty roster
		roster := NewRoster()

		// When: a move arrives for a player never announced
		roster.Upsert("p2", "", Point{X: 1, Y: 1})

		// Then: the entry exists with the id as its name
		player, ok := roster.Get("p2")
		require.True(t, ok)
		assert.Equal(t, "p2", player.Name)
		assert.Equal(t, Point{X: 1, Y: 1}, player.Position)
	})

	t.Run("Keeps the known name when an update carries none", func(t *testing.T) {
		// Given: a roster with a named player
		roster := NewRoster()
		roster.Upsert("p2", "other", Point{X: 1, Y: 1})

		// When: a nameless position update arrives
		roster.Upsert("p2", "", Point{X: 2, Y: 1})

		// Then: the name survives and the position moves
		player, ok := roster.Get("p2")
		require.True(t, ok)
		assert.Equal(t, "other", player.Name)
		assert.Equal(t, Point{X: 2, Y: 1}, player.Position)
	})

	t.Run("Never admits the excluded self id", func(t *testing.T) {
		// Given: a roster that already holds the future self id
		roster := NewRoster()
		roster.Upsert("p1", "me", Point{})

		// When: excluding it and trying to insert it again
		roster.Exclude("p1")
		roster.Upsert("p1", "me", Point{X: 3, Y: 3})

		// Then: the roster does not contain it
		_, ok := roster.Get("p1")
		assert.False(t, ok)
		assert.Zero(t, roster.Len())
	})
}

func TestRoster_Replace(t *testing.T) {
	t.Run("Swaps the whole table for the authoritative roster", func(t *testing.T) {
		// Given: a roster with stale entries
		roster := NewRoster()
		roster.Exclude("p1")
		roster.Upsert("stale", "old", Point{})

		// When: replacing with a payload roster that includes self
		roster.Replace([]RosterEntry{
			{ID: "p1", Name: "me", Position: Point{X: 0, Y: 0}},
			{ID: "p2", Name: "other", Position: Point{X: 2, Y: 3}},
		})

		// Then: only the other player remains
		assert.Equal(t, 1, roster.Len())

		_, ok := roster.Get("stale")
		assert.False(t, ok)

		_, ok = roster.Get("p1")
		assert.False(t, ok)

		player, ok := roster.Get("p2")
		require.True(t, ok)
		assert.Equal(t, "other", player.Name)
	})
}

func TestRoster_Remove(t *testing.T) {
	t.Run("Deletes a present entry and tolerates a missing one", func(t *testing.T) {
		roster := NewRoster()
		roster.Upsert("p2", "other", Point{})

		roster.Remove("p2")
		roster.Remove("p3")

		assert.Zero(t, roster.Len())
	})
}

func TestRoster_At(t *testing.T) {
	t.Run("Finds a player standing on a cell", func(t *testing.T) {
		// Given: one player at (2,3)
		roster := NewRoster()
		roster.Upsert("p2", "other", Point{X: 2, Y: 3})

		// Then: the occupied cell resolves, a free one does not
		id, ok := roster.At(Point{X: 2, Y: 3})
		require.True(t, ok)
		assert.Equal(t, "p2", id)

		_, ok = roster.At(Point{X: 0, Y: 0})
		assert.False(t, ok)
	})
}
