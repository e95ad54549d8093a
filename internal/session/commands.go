package session

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/gridrunner-client/internal/apperror"
	"github.com/rocketscienceinc/gridrunner-client/internal/entity"
	"github.com/rocketscienceinc/gridrunner-client/internal/protocol"
)

// Command is one token from the command source.
type Command int

const (
	CommandUp Command = iota
	CommandLeft
	CommandDown
	CommandRight
	CommandQuit
)

var directionDeltas = map[Command]entity.Point{
	CommandUp:    {X: 0, Y: 1},
	CommandLeft:  {X: -1, Y: 0},
	CommandDown:  {X: 0, Y: -1},
	CommandRight: {X: 1, Y: 0},
}

// SendJoin - sends the NETWORK/JOIN request and moves the session into the
// awaiting-ack phase.
func (that *Session) SendJoin() error {
	body := protocol.JoinRequest{PlayerName: that.state.SelfName}

	if err := that.send(protocol.MainNetwork, protocol.SubJoin, body); err != nil {
		return fmt.Errorf("failed to send join request: %w", err)
	}

	that.state.Phase = entity.PhaseAwaitingJoinAck
	that.state.SetMessage("join request sent as %s", that.state.SelfName)

	return nil
}

// HandleCommand - applies one user command. Send failures and rejected
// moves degrade to status messages; only quit changes the phase.
func (that *Session) HandleCommand(command Command) {
	log := that.logger.With("method", "HandleCommand")

	if command == CommandQuit {
		// Best effort: a failed leave notification must not block shutdown.
		if err := that.sendLeave(); err != nil {
			log.Warn("failed to send leave notification", "error", err)
			that.state.SetMessage("failed to notify server about leaving: %v", err)
		}

		that.state.Phase = entity.PhaseClosed

		return
	}

	err := that.move(command)

	switch {
	case err == nil:
	case errors.Is(err, apperror.ErrOutOfBounds):
		that.state.SetMessage("cannot move there: map boundary")
	case errors.Is(err, apperror.ErrMovementLocked):
		that.state.SetMessage("movement is not available in phase %s", that.state.Phase)
	default:
		log.Error("failed to send move", "error", err)
		that.state.SetMessage("failed to send move: %v", err)
	}
}

// move - validates the target cell against the current map bounds and sends
// GAME/PLAYER_MOVED. Out-of-bounds targets are rejected locally and never
// reach the wire. The own position only changes once the server confirms.
func (that *Session) move(command Command) error {
	delta, ok := directionDeltas[command]
	if !ok {
		return fmt.Errorf("%w: command %d", apperror.ErrMovementLocked, command)
	}

	if !that.state.IsPlaying() {
		return apperror.ErrMovementLocked
	}

	info, err := that.state.Current()
	if err != nil {
		return err
	}

	target := that.state.Position.Add(delta)
	if !info.InBounds(target) {
		return fmt.Errorf("%w: (%d,%d)", apperror.ErrOutOfBounds, target.X, target.Y)
	}

	body := protocol.MoveRequest{
		PlayerID: that.state.SelfID,
		X:        target.X,
		Y:        target.Y,
	}

	if err = that.send(protocol.MainGame, protocol.SubPlayerMoved, body); err != nil {
		return fmt.Errorf("failed to send move request: %w", err)
	}

	return nil
}

func (that *Session) sendLeave() error {
	body := protocol.LeaveRequest{
		PlayerID:   that.state.SelfID,
		PlayerName: that.state.SelfName,
	}

	if err := that.send(protocol.MainNetwork, protocol.SubLeft, body); err != nil {
		return fmt.Errorf("failed to send leave request: %w", err)
	}

	return nil
}

func (that *Session) send(mainType, subType uint16, payload any) error {
	frame, err := protocol.Encode(mainType, subType, payload)
	if err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}

	if _, err = that.conn.Write(frame); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	return nil
}
