package apperror

import "errors"

var (
	ErrTransportClosed = errors.New("transport closed")
	ErrOutOfBounds     = errors.New("move target is outside the map bounds")
	ErrNoCurrentMap    = errors.New("no current map")
	ErrUnknownMap      = errors.New("map is not in the registry")
	ErrMovementLocked  = errors.New("movement is not available in this phase")
)
