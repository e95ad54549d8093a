package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/gridrunner-client/internal/apperror"
	"github.com/rocketscienceinc/gridrunner-client/internal/entity"
	"github.com/rocketscienceinc/gridrunner-client/internal/protocol"
)

const frameBacklog = 32

// Run - the session loop. It sends the join request, then waits on the two
// input sources until the transport closes, the user quits, or the context
// is canceled. Every wake drains all buffered frames but takes at most one
// command; a ticker bounds the wait so termination is re-checked even when
// both sources are idle.
func (that *Session) Run(ctx context.Context, commands <-chan Command) error {
	log := that.logger.With("method", "Run")

	if err := that.SendJoin(); err != nil {
		return fmt.Errorf("failed to join: %w", err)
	}

	frames := make(chan *protocol.Frame, frameBacklog)
	readErrs := make(chan error, 1)

	// Closed on return so the reader never stays blocked on a full buffer.
	done := make(chan struct{})
	defer close(done)

	go that.readFrames(done, frames, readErrs)

	ticker := time.NewTicker(that.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("context canceled, leaving")
			that.HandleCommand(CommandQuit)

		case frame := <-frames:
			that.Apply(frame)
			that.drainFrames(frames)

		case err := <-readErrs:
			that.state.Phase = entity.PhaseClosed

			if errors.Is(err, apperror.ErrTransportClosed) {
				log.Info("server closed the connection")
				return err
			}

			log.Error("transport failure", "error", err)

			return err

		case command, ok := <-commands:
			if !ok {
				commands = nil
				continue
			}
			that.HandleCommand(command)

		case <-ticker.C:
		}

		if that.state.IsClosed() {
			log.Info("session closed")
			return nil
		}
	}
}

// readFrames - decodes frames off the transport until it fails, closes, or
// the session loop is done.
func (that *Session) readFrames(done <-chan struct{}, frames chan<- *protocol.Frame, readErrs chan<- error) {
	for {
		frame, err := protocol.Decode(that.conn)
		if err != nil {
			readErrs <- err
			return
		}

		select {
		case frames <- frame:
		case <-done:
			return
		}
	}
}

// drainFrames - applies whatever is already buffered without blocking.
func (that *Session) drainFrames(frames <-chan *protocol.Frame) {
	for {
		select {
		case frame := <-frames:
			that.Apply(frame)
		default:
			return
		}
	}
}
