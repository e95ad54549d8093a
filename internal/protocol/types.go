package protocol

// Main event types on the wire.
const (
	MainNetwork uint16 = 1
	MainGame    uint16 = 2
	MainError   uint16 = 3
)

// NETWORK sub-types.
const (
	SubJoin  uint16 = 101
	SubLeft  uint16 = 102
	SubClose uint16 = 103
)

// GAME sub-types.
const (
	SubRoomCreate       uint16 = 201
	SubGameCountdown    uint16 = 202
	SubGameStart        uint16 = 203
	SubPlayerMoved      uint16 = 204
	SubPlayerComeInMap  uint16 = 205
	SubPlayerComeOutMap uint16 = 206
	SubPlayerFinished   uint16 = 207
	SubGameEnd          uint16 = 208
)

// ERROR sub-types.
const (
	SubErrorUnknown uint16 = 301
)
