package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sjlee-dev/matchbook/params"
	"github.com/sjlee-dev/matchbook/pkg/api"
	"github.com/sjlee-dev/matchbook/pkg/feed"
	"github.com/sjlee-dev/matchbook/pkg/service"
	"github.com/sjlee-dev/matchbook/pkg/util"
)

func main() {
	cfg := params.LoadFromEnv("")

	logger, err := util.NewLogger(cfg.Log.File)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Event feed ----
	var publisher feed.Publisher = feed.Nop{}
	if cfg.Feed.Enabled {
		publisher = feed.NewKafka(cfg.Feed.Brokers, cfg.Feed.Topic)
		sugar.Infow("feed_enabled", "brokers", cfg.Feed.Brokers, "topic", cfg.Feed.Topic)
	} else {
		sugar.Info("feed_disabled")
	}
	defer publisher.Close()

	// ---- Matching service ----
	svc := service.New(sugar, publisher)
	for _, m := range cfg.Markets {
		base, quote, ok := strings.Cut(m, "/")
		if !ok {
			sugar.Warnw("bad_market_config", "market", m)
			continue
		}
		svc.RegisterBook(ctx, base, quote)
	}

	// ---- API server ----
	server := api.NewServer(svc, sugar, cfg.API.AllowedOrigins)

	// Push depth snapshots to websocket subscribers on every mutation.
	svc.OnDepth = server.BroadcastDepth

	go func() {
		if err := server.Start(cfg.API.Addr); err != nil {
			sugar.Fatalw("api_server_failed", "err", err)
		}
	}()

	sugar.Infow("matchbook_started", "addr", cfg.API.Addr, "markets", cfg.Markets)

	<-ctx.Done()
	sugar.Info("shutting_down")
}
