package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadfunnel/funnel/flow"
	"leadfunnel/funnel/variants"
	"leadfunnel/impl/core"
	"leadfunnel/internal/config"
	"leadfunnel/internal/database"
	"leadfunnel/internal/http-server/api"
	"leadfunnel/internal/lib/logger"
	"leadfunnel/internal/lib/sl"
	"leadfunnel/internal/service/leads"
	"leadfunnel/internal/service/telegram"
	"leadfunnel/internal/service/whatsapp"
	flagstore "leadfunnel/internal/store/flag"
	"leadfunnel/internal/ws"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	lg.Info("starting leadfunnel", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := core.New(lg)

	var storage flow.StateStorage
	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("mongo client")
	}
	if db != nil {
		if err = db.EnsureIndexes(ctx); err != nil {
			lg.With(sl.Err(err)).Error("mongo indexes")
		}
		storage = flow.NewMongoStateStorage(db)
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("user", conf.Mongo.User),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo client initialized")
	} else {
		memory := flow.NewMemoryStorage(conf.Session.TTL)
		go memory.Run(ctx, time.Minute)
		storage = memory
		lg.Info("dialog sessions kept in memory", slog.Duration("ttl", conf.Session.TTL))
	}

	engine := flow.NewEngine(storage, lg)
	registry, err := variants.NewRegistry(flow.VariantID(conf.Flow.DefaultVariant))
	if err != nil {
		lg.Error("variant registry", sl.Err(err))
		return
	}
	if err = registry.Install(engine); err != nil {
		lg.Error("register variants", sl.Err(err))
		return
	}
	handler.SetDialogs(engine, registry)

	if conf.Redis.Enabled {
		rdb := flagstore.NewRedis(flagstore.RedisOptions{
			Address:  conf.Redis.Address,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
			TTL:      conf.Redis.FlagTTL,
		})
		defer func() { _ = rdb.Close() }()
		if err = rdb.Ping(ctx); err != nil {
			// reads fail open, writes are logged by the core
			lg.With(sl.Err(err)).Warn("redis not reachable")
		}
		handler.SetFlagStore(rdb)
		lg.Info("submission flags in redis", slog.String("address", conf.Redis.Address))
	} else {
		handler.SetFlagStore(flagstore.NewMemory())
	}

	if conf.WhatsApp.Enabled {
		handler.SetPhoneChecker(whatsapp.NewClient(conf, lg))
		lg.Info("whatsapp checker initialized", slog.String("url", conf.WhatsApp.URL))
	} else {
		handler.SetPhoneChecker(whatsapp.Noop{})
	}

	handler.SetLeadGateway(leads.NewGateway(conf, lg))

	if conf.Telegram.Enabled {
		notifier, err := telegram.NewNotifier(conf.Telegram.ApiKey, conf.Telegram.ChatId, lg)
		if err != nil {
			lg.Error("failed to initialize telegram notifier", sl.Err(err))
		} else {
			handler.SetNotifier(notifier)
			lg.With(
				sl.Secret("api_key", conf.Telegram.ApiKey),
				slog.Int64("chat_id", conf.Telegram.ChatId),
			).Info("telegram notifier initialized")
		}
	}

	hub := ws.NewHub(lg)
	go hub.Run(ctx)
	handler.SetFeed(hub)

	// *** blocking start with http server ***
	err = api.New(ctx, conf, lg, handler, hub)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Info("service stopped")
}
