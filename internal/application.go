package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/gridrunner-client/internal/apperror"
	"github.com/rocketscienceinc/gridrunner-client/internal/config"
	"github.com/rocketscienceinc/gridrunner-client/internal/session"
	"github.com/rocketscienceinc/gridrunner-client/internal/termui"
)

// RunApp - runs one interactive client session against the game server.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	addr := conf.Server.GetServerAddr()

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("could not connect to game server at %s: %w", addr, err)
	}

	defer func() {
		if err = conn.Close(); err != nil {
			log.Error("could not close connection", "error", err)
		}
	}()

	screen, err := termui.New(logger)
	if err != nil {
		return fmt.Errorf("could not initialize terminal: %w", err)
	}
	defer screen.Close()

	// Unblock the key poll once the session loop decides to stop.
	defer screen.Interrupt()

	log.Info("Connected to game server", "addr", addr, "player", conf.PlayerName)

	gameSession := session.New(logger, conn, screen, conf.PlayerName, conf.TickInterval)

	err = gameSession.Run(ctx, screen.Commands())
	if errors.Is(err, apperror.ErrTransportClosed) {
		log.Info("Session ended, server closed the connection")
		return nil
	}
	if err != nil {
		return fmt.Errorf("session failed: %w", err)
	}

	log.Info("Session ended")

	return nil
}
