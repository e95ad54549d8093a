package entity

import (
	"fmt"

	"github.com/rocketscienceinc/gridrunner-client/internal/apperror"
)

// Phase is the coarse session state of the client.
type Phase string

const (
	PhaseConnecting      Phase = "connecting"
	PhaseAwaitingJoinAck Phase = "awaiting_join_ack"
	PhaseWaiting         Phase = "waiting"
	PhasePlaying         Phase = "playing"
	PhaseFinished        Phase = "finished"
	PhaseClosed          Phase = "closed"
)

// LeaderboardEntry is one ranked result row, stored exactly as received.
// The server owns the ranking; the client never re-sorts.
type LeaderboardEntry struct {
	Rank          int
	PlayerID      string
	PlayerName    string
	TotalDistance int
}

// ClientState is the single mutable root of one session. It is owned and
// mutated exclusively by the session loop; there is no concurrent access.
type ClientState struct {
	SelfID     string
	SelfName   string
	Phase      Phase
	RoomID     string
	CurrentMap string
	Position   Point

	Roster     *Roster
	Visibility *Visibility

	Leaderboard []LeaderboardEntry

	maps    map[string]*MapInfo
	message string
}

func NewClientState(selfName string) *ClientState {
	return &ClientState{
		SelfName:   selfName,
		Phase:      PhaseConnecting,
		Roster:     NewRoster(),
		Visibility: NewVisibility(),
		maps:       make(map[string]*MapInfo),
	}
}

// SetSelfID - records the identity assigned by the server on join and keeps
// the roster from ever holding it.
func (that *ClientState) SetSelfID(playerID string) {
	that.SelfID = playerID
	that.Roster.Exclude(playerID)
}

// RegisterMap - adds a map to the registry. Maps are immutable once
// received, so a second registration under the same name is ignored.
func (that *ClientState) RegisterMap(info *MapInfo) {
	if _, ok := that.maps[info.Name]; ok {
		return
	}

	that.maps[info.Name] = info
}

// Map - looks a map up by name.
func (that *ClientState) Map(name string) (*MapInfo, bool) {
	info, ok := that.maps[name]
	return info, ok
}

// Current - returns the metadata of the current map.
func (that *ClientState) Current() (*MapInfo, error) {
	if that.CurrentMap == "" {
		return nil, apperror.ErrNoCurrentMap
	}

	info, ok := that.maps[that.CurrentMap]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrUnknownMap, that.CurrentMap)
	}

	return info, nil
}

// EnterMap - makes a map current and places self on it. The border is
// revealed unconditionally and the starting neighborhood on top of it.
func (that *ClientState) EnterMap(name string, position Point) error {
	info, ok := that.maps[name]
	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrUnknownMap, name)
	}

	that.CurrentMap = name
	that.Position = position

	that.Visibility.RevealBorder(info)
	that.Visibility.RevealNeighborhood(info, position)

	return nil
}

// MoveSelf - applies a server-confirmed own movement on the current map and
// extends visibility around the new position.
func (that *ClientState) MoveSelf(position Point) error {
	info, err := that.Current()
	if err != nil {
		return err
	}

	that.Position = position
	that.Visibility.RevealNeighborhood(info, position)

	return nil
}

// SetMessage - stores the status string shown on the next render.
func (that *ClientState) SetMessage(format string, args ...any) {
	that.message = fmt.Sprintf(format, args...)
}

// ConsumeMessage - returns the pending status string and clears it. The
// renderer calls this once per display.
func (that *ClientState) ConsumeMessage() string {
	message := that.message
	that.message = ""

	return message
}

// IsPlaying - reports whether movement input is accepted.
func (that *ClientState) IsPlaying() bool {
	return that.Phase == PhasePlaying
}

// IsFinished - reports whether the session reached the terminal game phase.
func (that *ClientState) IsFinished() bool {
	return that.Phase == PhaseFinished
}

// IsClosed - reports whether the session is over.
func (that *ClientState) IsClosed() bool {
	return that.Phase == PhaseClosed
}
