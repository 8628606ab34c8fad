// Package config loads the game options from flags, environment variables
// and an optional .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultLogFile   = "tetris.log"
	defaultLogLevel  = "info"
	defaultWatchAddr = "localhost:9000"
)

type Config struct {
	NoGhost  bool
	GRPCAddr string // spectator gRPC listen address, empty disables it
	HTTPAddr string // spectator HTTP listen address, empty disables it
	LogFile  string
	LogLevel slog.Level
	Seed     uint64 // 0 picks a random seed
	FPS      int
}

// LoadEnv reads .env files into the environment. Missing files are not an error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// Load parses args on top of the defaults taken from the environment.
func Load(name string, args []string, output io.Writer) (*Config, error) {
	noGhost, err := strconv.ParseBool(GetEnv("TETRIS_NO_GHOST", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid TETRIS_NO_GHOST: %w", err)
	}
	seed, err := strconv.ParseUint(GetEnv("TETRIS_SEED", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TETRIS_SEED: %w", err)
	}
	fps, err := strconv.Atoi(GetEnv("TETRIS_FPS", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid TETRIS_FPS: %w", err)
	}

	c := &Config{}
	var level string
	fset := flag.NewFlagSet(name, flag.ContinueOnError)
	fset.SetOutput(output)
	fset.BoolVar(&c.NoGhost, "noghost", noGhost, "hide the ghost piece")
	fset.StringVar(&c.GRPCAddr, "grpc", GetEnv("TETRIS_GRPC_ADDR", ""), "address for the gRPC spectator service, e.g. :9000")
	fset.StringVar(&c.HTTPAddr, "http", GetEnv("TETRIS_HTTP_ADDR", ""), "address for the HTTP spectator service, e.g. :8080")
	fset.StringVar(&c.LogFile, "log", GetEnv("TETRIS_LOG_FILE", defaultLogFile), "log file")
	fset.StringVar(&level, "level", GetEnv("TETRIS_LOG_LEVEL", defaultLogLevel), "log level: debug, info, warn or error")
	fset.Uint64Var(&c.Seed, "seed", seed, "seed for the piece randomizer, 0 is random")
	fset.IntVar(&c.FPS, "fps", fps, "frames per second")
	if err := fset.Parse(args); err != nil {
		return nil, err
	}

	if err := c.LogLevel.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if c.FPS <= 0 {
		return nil, fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	return c, nil
}

// Spectator holds the options of the spectate command.
type Spectator struct {
	Addr  string // gRPC spectator service to follow
	Board bool   // print the board with every frame
}

// LoadSpectator parses the spectate command flags. The address defaults to
// TETRIS_GRPC_ADDR, the same variable the game listens on.
func LoadSpectator(name string, args []string, output io.Writer) (*Spectator, error) {
	c := &Spectator{}
	fset := flag.NewFlagSet(name, flag.ContinueOnError)
	fset.SetOutput(output)
	fset.StringVar(&c.Addr, "addr", GetEnv("TETRIS_GRPC_ADDR", defaultWatchAddr), "address of the gRPC spectator service")
	fset.BoolVar(&c.Board, "board", false, "print the board with every frame")
	if err := fset.Parse(args); err != nil {
		return nil, err
	}
	if strings.TrimSpace(c.Addr) == "" {
		return nil, errors.New("addr must not be empty")
	}
	return c, nil
}
