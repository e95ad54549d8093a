package protocol

import (
	"encoding/json"
	"fmt"
)

// ResultFlag is the "result" field of server events. The server historically
// sent both the boolean true and the string "ok" for success, so both are
// accepted and normalized to a bool.
type ResultFlag bool

func (that *ResultFlag) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*that = ResultFlag(b)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to unmarshal result flag %q: %w", string(data), err)
	}

	*that = s == "ok" || s == "true"

	return nil
}

func (that ResultFlag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(that))
}

// FlexString is an opaque identifier that the server may send as either a
// JSON string or a number (room ids and countdown values do both).
type FlexString string

func (that *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*that = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("failed to unmarshal identifier %q: %w", string(data), err)
	}

	*that = FlexString(n.String())

	return nil
}

// WirePoint mirrors the {"x":..,"y":..} coordinate objects on the wire.
type WirePoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// WirePortal is a portal cell and the name of the map it links to.
type WirePortal struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Name string `json:"name"`
}

// WireMap is the map metadata block inside a room_create payload.
type WireMap struct {
	Name      string       `json:"name"`
	Width     int          `json:"width"`
	Height    int          `json:"height"`
	Start     WirePoint    `json:"start"`
	End       *WirePoint   `json:"end,omitempty"`
	Obstacles []WirePoint  `json:"obstacles,omitempty"`
	Portals   []WirePortal `json:"portals,omitempty"`
}

// WirePlayer is one roster entry inside room_create and come_in_map payloads.
type WirePlayer struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name,omitempty"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Map        string `json:"map,omitempty"`
}

// JoinAckPayload acknowledges a NETWORK/JOIN request.
type JoinAckPayload struct {
	Action   string     `json:"action"`
	Result   ResultFlag `json:"result"`
	PlayerID string     `json:"player_id"`
	Message  string     `json:"msg,omitempty"`
}

// LeftAckPayload acknowledges a NETWORK/LEFT request or reports a close.
type LeftAckPayload struct {
	Action  string     `json:"action"`
	Result  ResultFlag `json:"result"`
	Message string     `json:"msg,omitempty"`
}

// RoomCreatePayload carries the full room snapshot: every map of the room
// and the authoritative player roster.
type RoomCreatePayload struct {
	Action  string       `json:"action"`
	Result  ResultFlag   `json:"result"`
	RoomID  FlexString   `json:"room_id"`
	Maps    []WireMap    `json:"maps"`
	Players []WirePlayer `json:"players,omitempty"`
}

// CountdownPayload carries the remaining seconds before game start.
type CountdownPayload struct {
	Action string     `json:"action"`
	Result ResultFlag `json:"result"`
	Count  FlexString `json:"count"`
}

// GameStartPayload signals the transition into the playing phase.
type GameStartPayload struct {
	Action string     `json:"action"`
	Result ResultFlag `json:"result"`
}

// MovedPayload reports one player's new position on a map.
type MovedPayload struct {
	Action     string     `json:"action"`
	Result     ResultFlag `json:"result"`
	PlayerID   string     `json:"player_id"`
	PlayerName string     `json:"player_name,omitempty"`
	X          int        `json:"x"`
	Y          int        `json:"y"`
	Map        string     `json:"map"`
}

// MapChangePayload reports a player entering or leaving a map. On self
// entry it also carries the authoritative roster of the new map.
type MapChangePayload struct {
	Action   string       `json:"action"`
	Result   ResultFlag   `json:"result"`
	PlayerID string       `json:"player_id"`
	Map      string       `json:"map"`
	X        int          `json:"x"`
	Y        int          `json:"y"`
	Players  []WirePlayer `json:"players,omitempty"`
}

// LeaderboardEntry is one ranked result row, in server order.
type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	PlayerID      string `json:"player_id"`
	PlayerName    string `json:"player_name"`
	TotalDistance int    `json:"total_distance"`
}

// FinishedPayload reports a player reaching the end cell. When addressed to
// the finishing player it includes the leaderboard accumulated so far.
type FinishedPayload struct {
	Action    string             `json:"action"`
	Result    ResultFlag         `json:"result"`
	PlayerID  string             `json:"player_id"`
	TotalDist int                `json:"total_dist"`
	RoomID    FlexString         `json:"room_id,omitempty"`
	Results   []LeaderboardEntry `json:"results,omitempty"`
}

// ErrorPayload is a server-reported fault; never fatal to the session.
type ErrorPayload struct {
	Error  string     `json:"error"`
	Result ResultFlag `json:"result"`
}

// RawPayload is the decode fallback for bodies that are not valid JSON.
type RawPayload struct {
	Raw string `json:"raw"`
}

// JoinRequest is the outbound NETWORK/JOIN body.
type JoinRequest struct {
	PlayerName string `json:"player_name"`
}

// LeaveRequest is the outbound NETWORK/LEFT body.
type LeaveRequest struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// MoveRequest is the outbound GAME/PLAYER_MOVED body. The target cell is
// validated against the current map bounds before it is ever sent.
type MoveRequest struct {
	PlayerID string `json:"player_id"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}
