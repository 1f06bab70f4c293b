// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"spodown-client/internal/config"
	"spodown-client/internal/domain/model"
	"spodown-client/internal/domain/ports/repository"
	"spodown-client/internal/infra/adapters/jobapi"
	"spodown-client/internal/infra/adapters/render"
	pg "spodown-client/internal/infra/db/postgres"
	"spodown-client/internal/infra/logging"
	"spodown-client/internal/infra/metrics"
	"spodown-client/internal/infra/poller"
	red "spodown-client/internal/infra/redis"
	"spodown-client/internal/infra/web"
	"spodown-client/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (verbose console logs)")
	dlURL := flag.String("url", "", "Spotify or SoundCloud link to download")
	search := flag.String("search", "", "track search query to find and download")
	say := flag.String("say", "", "post a chat message (requires chat.enabled)")
	reattach := flag.Bool("reattach", false, "resume tracking downloads a previous run left active")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	// ---- Server adapter ----
	jobs, err := jobapi.NewClient(cfg.Server.BaseURL, cfg.Server.Timeout)
	if err != nil {
		log.Fatalf("server adapter: %v", err)
	}

	// ---- Console renderer ----
	console := render.NewConsole(os.Stdout, os.Stdin)

	// ---- Redis flow slots (optional) ----
	var slots repository.FlowSlotStore
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		slots = red.NewFlowSlotStore(redisClient, cfg.Redis.TTL)
	}

	// ---- Postgres download history (optional) ----
	var history repository.HistoryRepository
	if cfg.Database.URL != "" {
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer pool.Close()
		history = pg.NewHistoryRepo(pool)
	}

	// ---- Use cases ----
	driver := poller.NewProgressPoller(jobs, poller.NewClock(), poller.Config{
		Interval:       cfg.Polling.Interval,
		MaxFailures:    cfg.Polling.MaxPollFailures,
		UnknownStrikes: cfg.Polling.UnknownStrikes,
	}, logger)
	downloadUC := usecase.NewDownloadUseCase(jobs, driver, console, console, slots, history, cfg.Polling.MaxConcurrentJobs, logger)
	chatUC := usecase.NewChatUseCase(jobs, console, logger)

	// ---- Chat sync loop ----
	if cfg.Chat.Enabled {
		loop := poller.NewChatLoop(chatUC, cfg.Chat.Period, poller.NewClock(), logger)
		go func() {
			if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("chat loop stopped")
			}
		}()
		if *say != "" {
			if err := loop.Send(ctx, *say); err != nil {
				logger.Error().Err(err).Msg("chat send failed")
			}
		}
	} else if *say != "" {
		log.Fatalf("-say requires chat.enabled in %s", *cfgPath)
	}

	// ---- Status server ----
	if cfg.Status.Port != 0 {
		metrics.MustRegister()
		statusSrv := web.NewServer(downloadUC, history, cfg.Status.APIKey, logger)
		go func() {
			if err := statusSrv.Start(cfg.Status.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("status server error")
			}
		}()
		defer func() { _ = statusSrv.Shutdown(context.Background()) }()
	}

	// ---- Resume previous flows ----
	if *reattach {
		n, err := downloadUC.Reattach(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("reattach failed")
		} else {
			logger.Info().Int("flows", n).Msg("reattached active downloads")
		}
	}

	// ---- Kick off the requested download ----
	var flowID string
	switch {
	case *dlURL != "":
		flowID, err = downloadUC.Start(ctx, *dlURL, model.ModeURL)
	case *search != "":
		flowID, err = downloadUC.StartFromSearch(ctx, *search)
	}
	if err != nil {
		log.Fatalf("start download: %v", err)
	}

	if flowID == "" && !*reattach && !cfg.Chat.Enabled {
		fmt.Fprintln(os.Stderr, "nothing to do: pass -url, -search or -reattach (see -h)")
		os.Exit(2)
	}

	// ---- Interrupt handling: first SIGINT asks to cancel, second quits ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	if flowID != "" {
		done := make(chan model.Phase, 1)
		go func() {
			phase, err := downloadUC.Wait(ctx, flowID)
			if err != nil {
				logger.Error().Err(err).Msg("wait failed")
			}
			done <- phase
		}()
		for {
			select {
			case sig := <-sigc:
				if sig == syscall.SIGTERM {
					cancel()
					return
				}
				cancelled, err := downloadUC.Cancel(ctx, flowID)
				if err != nil {
					logger.Warn().Err(err).Msg("cancel failed")
				}
				if cancelled {
					return
				}
			case phase := <-done:
				logger.Info().Str("phase", string(phase)).Msg("download finished")
				return
			}
		}
	}

	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
}
