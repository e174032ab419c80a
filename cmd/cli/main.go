package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/dockeeper/internal/buildinfo"
	"github.com/dmitrijs2005/dockeeper/internal/cache"
	"github.com/dmitrijs2005/dockeeper/internal/cli"
	"github.com/dmitrijs2005/dockeeper/internal/completion"
	"github.com/dmitrijs2005/dockeeper/internal/config"
	"github.com/dmitrijs2005/dockeeper/internal/gateway"
	"github.com/dmitrijs2005/dockeeper/internal/logging"
	"github.com/dmitrijs2005/dockeeper/internal/netwatch"
	"github.com/dmitrijs2005/dockeeper/internal/services"
	"github.com/dmitrijs2005/dockeeper/internal/session"
	"github.com/dmitrijs2005/dockeeper/internal/store"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.Default()

	st, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer st.Close()

	gw := gateway.NewHTTPGateway(cfg.GatewayBaseURL, cfg.GatewayAPIKey)
	watcher := netwatch.NewWatcher(gw, cfg.OnlineCheckInterval, logger)

	ttlCache := cache.New(st.Cache, cfg.CacheTTL)
	completionSvc := completion.NewService(
		completion.NewClient(cfg.GenerationBaseURL, cfg.GenerationAPIKey), ttlCache, logger)

	syncSvc := services.NewSyncService(st, gw, watcher, ttlCache, cfg.MaxSyncRetries, logger)

	app := cli.NewApp(
		services.NewProjectService(st.Projects, st.Queue),
		services.NewDocumentService(st.Documents, st.Queue),
		services.NewStandardInfoService(st.StandardInfo, st.Queue),
		syncSvc, completionSvc, gw, logger)

	if cfg.AccessToken != "" {
		sess, err := session.Parse(cfg.AccessToken)
		if err != nil {
			logger.Warn(ctx, "ignoring configured access token", "error", err)
		} else {
			gw.SetToken(cfg.AccessToken)
			syncSvc.SetSession(ctx, sess)
		}
	}

	go watcher.Run(ctx)

	app.Run(ctx)
}
