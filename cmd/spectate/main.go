package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"termtris/config"
	"termtris/server"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// spectate follows a running game through its gRPC spectator service and
// logs every frame it receives.
func main() {
	if err := config.LoadEnv(); err != nil {
		log.Fatal(err)
	}
	cfg, err := config.LoadSpectator(os.Args[0], os.Args[1:], os.Stderr)
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	conn, err := grpc.NewClient(cfg.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("unable to create gRPC client: %v", err)
	}
	defer conn.Close()

	stream, err := server.Watch(ctx, conn)
	if err != nil {
		log.Fatalf("unable to watch game: %v", err)
	}

	var lastID string
	for {
		msg, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			st, ok := status.FromError(err)
			if ok && (st.Code() == codes.Canceled || st.Code() == codes.Unavailable) {
				logger.Info("stream closed", slog.String("msg", st.Message()))
				return
			}
			log.Fatalf("unable to receive frame: %v", err)
		}

		f := msg.GetFields()
		id := f["id"].GetStringValue()
		if id != lastID {
			logger.Info("new game", slog.String("id", id))
			lastID = id
		}
		logger.Info("frame",
			slog.Int("score", int(f["score"].GetNumberValue())),
			slog.Int("high_score", int(f["high_score"].GetNumberValue())),
			slog.Int("level", int(f["level"].GetNumberValue())),
			slog.Int("lines", int(f["lines"].GetNumberValue())),
			slog.String("fall_interval", f["fall_interval"].GetStringValue()),
			slog.String("next", f["next"].GetStringValue()),
			slog.Bool("game_over", f["game_over"].GetBoolValue()),
		)
		if cfg.Board {
			var rows []string
			for _, v := range f["board"].GetListValue().GetValues() {
				rows = append(rows, v.GetStringValue())
			}
			os.Stdout.WriteString(strings.Join(rows, "\n") + "\n\n") //nolint: errcheck
		}
	}
}
