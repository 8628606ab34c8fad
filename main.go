package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"termtris/client"
	"termtris/config"
	"termtris/server"
	"termtris/spectate"
	"termtris/tetris"
	"termtris/web"
	"time"

	"golang.org/x/term"
	"google.golang.org/grpc"
)

const (
	hideCursor = "\033[2J\033[?25l" // also clear screen
	showCursor = "\033[23;0H\n\r\033[?25h"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Fatal(err)
	}
	cfg, err := config.Load(os.Args[0], os.Args[1:], os.Stderr)
	if err != nil {
		log.Fatal(err)
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		log.Fatal("tetris needs an interactive terminal")
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("unable to open log file: %v", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: cfg.LogLevel}))

	var session *tetris.Session
	if cfg.Seed != 0 {
		session = tetris.NewConfigurable(logger, rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))) //nolint:gosec
	} else {
		session = tetris.New(logger)
	}

	hub := spectate.NewHub()
	stop, err := startSpectators(cfg, logger, hub)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		hub.Close()
		stop()
	}()

	restore := startRawConsole()
	defer restore()

	c, err := client.New(logger, session, &client.Options{
		NoGhost:   cfg.NoGhost,
		FPS:       cfg.FPS,
		Publisher: hub,
	})
	if err != nil {
		logger.Error("unable to start client", slog.String("error", err.Error()))
		return
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Error("unable to close keyboard", slog.String("error", err.Error()))
		}
	}()

	if err := c.Start(); err != nil {
		logger.Error("game loop stopped", slog.String("error", err.Error()))
	}
	logger.Info("bye", slog.Int("high_score", session.HighScore()))
}

// startSpectators starts the configured spectator services and returns a
// function that shuts them down.
func startSpectators(cfg *config.Config, logger *slog.Logger, hub *spectate.Hub) (func(), error) {
	var stops []func()
	stopAll := func() {
		for _, s := range stops {
			s()
		}
	}

	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return nil, fmt.Errorf("failed to listen on %s: %w", cfg.GRPCAddr, err)
		}
		s := grpc.NewServer()
		server.Register(s, server.New(logger, hub))
		go func() {
			if err := s.Serve(lis); err != nil {
				logger.Error("gRPC spectator server stopped", slog.String("error", err.Error()))
			}
		}()
		logger.Info("gRPC spectator server started", slog.String("addr", lis.Addr().String()))
		stops = append(stops, s.Stop)
	}

	if cfg.HTTPAddr != "" {
		lis, err := net.Listen("tcp", cfg.HTTPAddr)
		if err != nil {
			stopAll()
			return nil, fmt.Errorf("failed to listen on %s: %w", cfg.HTTPAddr, err)
		}
		srv := &http.Server{
			Handler:           web.NewRouter(logger, hub),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("HTTP spectator server stopped", slog.String("error", err.Error()))
			}
		}()
		logger.Info("HTTP spectator server started", slog.String("addr", lis.Addr().String()))
		stops = append(stops, func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		})
	}
	return stopAll, nil
}

func startRawConsole() func() {
	fmt.Print(hideCursor)
	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		log.Fatalf("Error setting terminal to raw mode: %v", err)
	}

	return func() {
		if err := term.Restore(int(os.Stdin.Fd()), oldState); err != nil {
			log.Fatalf("unable to retore the terminal original state: %v", err)
		}
		fmt.Print(showCursor)
	}
}
