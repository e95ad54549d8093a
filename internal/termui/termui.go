package termui

import (
	"fmt"
	"log/slog"

	"github.com/mattn/go-runewidth"
	termbox "github.com/nsf/termbox-go"

	"github.com/rocketscienceinc/gridrunner-client/internal/entity"
	"github.com/rocketscienceinc/gridrunner-client/internal/render"
	"github.com/rocketscienceinc/gridrunner-client/internal/session"
)

// Screen is the terminal collaborator: a termbox-backed render sink and the
// w/a/s/d/q command source.
type Screen struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) (*Screen, error) {
	if err := termbox.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}

	return &Screen{
		logger: logger.With("component", "termui"),
	}, nil
}

// Close - releases the terminal.
func (that *Screen) Close() {
	termbox.Close()
}

// Interrupt - unblocks a pending key poll so the command goroutine exits.
func (that *Screen) Interrupt() {
	termbox.Interrupt()
}

// Commands - pumps key events into a command channel. The channel closes
// after a quit key or an interrupt.
func (that *Screen) Commands() <-chan session.Command {
	log := that.logger.With("method", "Commands")

	commands := make(chan session.Command)

	go func() {
		defer close(commands)

		for {
			event := termbox.PollEvent()

			switch event.Type {
			case termbox.EventInterrupt:
				return
			case termbox.EventError:
				log.Error("terminal event error", "error", event.Err)
				return
			case termbox.EventKey:
			default:
				continue
			}

			if event.Ch == 'q' || event.Key == termbox.KeyEsc || event.Key == termbox.KeyCtrlC {
				commands <- session.CommandQuit
				return
			}

			switch event.Ch {
			case 'w':
				commands <- session.CommandUp
			case 'a':
				commands <- session.CommandLeft
			case 's':
				commands <- session.CommandDown
			case 'd':
				commands <- session.CommandRight
			}
		}
	}()

	return commands
}

// Render - draws the full view: header, grid (or leaderboard once the game
// is finished) and the pending status message, which is consumed here.
func (that *Screen) Render(state *entity.ClientState) {
	if err := termbox.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
		that.logger.Error("failed to clear terminal", "error", err)
		return
	}

	lines := []string{render.Header(state), ""}

	if state.IsFinished() {
		lines = append(lines, render.Leaderboard(state)...)
	} else {
		lines = append(lines, render.View(state)...)
	}

	if message := state.ConsumeMessage(); message != "" {
		lines = append(lines, "", message)
	}

	for y, line := range lines {
		that.drawLine(0, y, line)
	}

	if err := termbox.Flush(); err != nil {
		that.logger.Error("failed to flush terminal", "error", err)
	}
}

func (that *Screen) drawLine(x, y int, line string) {
	for _, ch := range line {
		termbox.SetCell(x, y, ch, termbox.ColorDefault, termbox.ColorDefault)
		x += runewidth.RuneWidth(ch)
	}
}
