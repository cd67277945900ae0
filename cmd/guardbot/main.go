package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iamwavecut/guardbot/internal/bot"
	"github.com/iamwavecut/guardbot/internal/config"
	"github.com/iamwavecut/guardbot/internal/db/sqlite"
	"github.com/iamwavecut/guardbot/internal/handlers"
	"github.com/iamwavecut/guardbot/internal/infra"
	"github.com/iamwavecut/guardbot/internal/lifecycle"
	"github.com/iamwavecut/guardbot/internal/moderation"
	"github.com/iamwavecut/guardbot/internal/observability"
)

const updateWorkers = 16

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatalln("cant load config")
	}
	log.SetFormatter(&config.GbFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.Level(cfg.LogLevel))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := observability.Init(ctx); err != nil {
		log.WithError(err).Fatalln("cant init observability")
	}

	botAPI, err := api.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		log.WithError(err).Errorln("cant initialize bot api")
		time.Sleep(1 * time.Second)
		log.Fatalln("exiting")
	}
	if log.Level(cfg.LogLevel) == log.TraceLevel {
		botAPI.Debug = true
	}
	defer botAPI.StopReceivingUpdates()

	store, err := sqlite.NewSQLiteClient(ctx, infra.GetWorkDir(cfg.DotPath), "guardbot.db")
	if err != nil {
		log.WithError(err).Fatalln("cant open db")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Errorln("cant close db")
		}
	}()

	runtime := lifecycle.NewRuntime(observability.NewMetricsServer(cfg.MetricsAddr))
	if err := runtime.Start(ctx); err != nil {
		log.WithError(err).Fatalln("cant start components")
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()
		if err := runtime.Stop(stopCtx); err != nil {
			log.WithError(err).Errorln("cant stop components")
		}
	}()

	engine := moderation.NewEngine(store, moderation.Config{
		MaxMessagesPerMinute: cfg.SpamDetection.MaxMessagesPerMinute,
		BanDuration:          cfg.SpamDetection.BanDuration,
		SpamKeywords:         cfg.SpamDetection.SpamKeywords,
	})

	service := bot.NewService(botAPI, store, cfg)
	banService := handlers.NewBanService(botAPI, store)
	updateProcessor := bot.NewUpdateProcessor(service,
		handlers.NewReactor(service, engine, banService),
		handlers.NewAdmin(service, banService),
	)

	infra.GoRecoverable(-1, "update_loop", func() {
		runUpdateLoop(ctx, botAPI, updateProcessor)
	})

	select {
	case <-infra.MonitorExecutable(ctx):
		log.Errorln("executable file was modified")
	case <-ctx.Done():
		log.Infoln("shutting down")
	}
}

func runUpdateLoop(ctx context.Context, botAPI *api.BotAPI, updateProcessor *bot.UpdateProcessor) {
	updateConfig := api.NewUpdate(0)
	updateConfig.Timeout = 60
	updateChan, errorChan := bot.GetUpdatesChans(ctx, botAPI, updateConfig)

	// Updates fan out to a bounded worker pool; same-pair ordering is the
	// engine's job, not the loop's.
	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(updateWorkers)

	for {
		select {
		case err := <-errorChan:
			if errors.Is(err, context.Canceled) {
				_ = g.Wait()
				return
			}
			log.WithError(err).Fatalln("bot api get updates error")
		case update := <-updateChan:
			g.Go(func() error {
				if err := updateProcessor.Process(groupCtx, &update); err != nil {
					log.WithError(err).Errorln("cant process update")
				}
				return nil
			})
		case <-ctx.Done():
			_ = g.Wait()
			return
		}
	}
}
