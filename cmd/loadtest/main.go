package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/rocketscienceinc/gridrunner-client/internal/apperror"
	"github.com/rocketscienceinc/gridrunner-client/internal/entity"
	"github.com/rocketscienceinc/gridrunner-client/internal/session"
)

// loadtest opens many independent client sessions, one goroutine each, with
// staggered connects. Every session joins under its own name and consumes
// events until the server closes the connection or the run times out. The
// sessions share nothing; this is a fan-out of independent instances.

type nopSink struct{}

func (nopSink) Render(_ *entity.ClientState) {}

func main() {
	addr := flag.String("addr", "127.0.0.1:12345", "game server address")
	players := flag.Int("players", 5, "number of concurrent sessions")
	stagger := flag.Duration("stagger", time.Second, "delay between connects")
	duration := flag.Duration("duration", 30*time.Second, "how long to keep sessions alive")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log := logger.With("component", "loadtest")

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	var wg sync.WaitGroup

	for i := 1; i <= *players; i++ {
		wg.Add(1)

		go func(playerNum int) {
			defer wg.Done()

			time.Sleep(time.Duration(playerNum-1) * *stagger)

			if err := runSession(ctx, logger, *addr, playerNum); err != nil {
				log.Error("session failed", "player", playerNum, "error", err)
			}
		}(i)
	}

	wg.Wait()
	log.Info("all sessions finished", "players", *players)
}

func runSession(ctx context.Context, logger *slog.Logger, addr string, playerNum int) error {
	log := logger.With("component", "loadtest", "player", playerNum)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("could not connect to %s: %w", addr, err)
	}
	defer conn.Close()

	playerName := fmt.Sprintf("player%d", playerNum)
	log.Info("connected", "name", playerName)

	// No command source: the session only joins and consumes events.
	commands := make(chan session.Command)
	close(commands)

	gameSession := session.New(logger, conn, nopSink{}, playerName, 100*time.Millisecond)

	err = gameSession.Run(ctx, commands)
	if errors.Is(err, apperror.ErrTransportClosed) {
		log.Info("server closed the connection", "phase", gameSession.State().Phase)
		return nil
	}
	if err != nil {
		return err
	}

	log.Info("session ended", "phase", gameSession.State().Phase)

	return nil
}
