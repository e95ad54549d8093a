package entity

// OtherPlayer is the last reported state of another player.
type OtherPlayer struct {
	Name     string
	Position Point
}

// RosterEntry is one player record used for bulk roster replacement.
type RosterEntry struct {
	ID       string
	Name     string
	Position Point
}

// Roster tracks the other known players and their last reported positions.
// It never contains the excluded (own) player id.
type Roster struct {
	exclude string
	players map[string]*OtherPlayer
}

func NewRoster() *Roster {
	return &Roster{
		players: make(map[string]*OtherPlayer),
	}
}

// Exclude - marks a player id as self; it is dropped now and can never be
// inserted again.
func (that *Roster) Exclude(playerID string) {
	that.exclude = playerID
	delete(that.players, playerID)
}

// Upsert - inserts or updates a player entry. An empty name keeps the name
// already on record, or falls back to the player id for players that were
// never announced.
func (that *Roster) Upsert(playerID, name string, position Point) {
	if playerID == "" || playerID == that.exclude {
		return
	}

	existing, ok := that.players[playerID]
	if !ok {
		if name == "" {
			name = playerID
		}
		that.players[playerID] = &OtherPlayer{Name: name, Position: position}
		return
	}

	if name != "" {
		existing.Name = name
	}
	existing.Position = position
}

// Remove - deletes a player entry if present.
func (that *Roster) Remove(playerID string) {
	delete(that.players, playerID)
}

// Replace - swaps the whole table for the given authoritative roster.
func (that *Roster) Replace(entries []RosterEntry) {
	that.players = make(map[string]*OtherPlayer, len(entries))

	for _, entry := range entries {
		that.Upsert(entry.ID, entry.Name, entry.Position)
	}
}

// Get - returns a player entry by id.
func (that *Roster) Get(playerID string) (OtherPlayer, bool) {
	player, ok := that.players[playerID]
	if !ok {
		return OtherPlayer{}, false
	}

	return *player, true
}

// At - scans the table for a player standing on the given cell. Iteration
// order is unspecified; callers must not rely on which player wins when
// several share a cell.
func (that *Roster) At(cell Point) (string, bool) {
	for id, player := range that.players {
		if player.Position == cell {
			return id, true
		}
	}

	return "", false
}

// Len - returns the number of known other players.
func (that *Roster) Len() int {
	return len(that.players)
}
