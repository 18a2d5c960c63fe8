package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ariefcatur/korzinka-bot/internal/bot"
	"github.com/ariefcatur/korzinka-bot/internal/dialog"
	"github.com/ariefcatur/korzinka-bot/internal/events"
	"github.com/ariefcatur/korzinka-bot/internal/httpx"
	kafkax "github.com/ariefcatur/korzinka-bot/internal/kafka"
	"github.com/ariefcatur/korzinka-bot/internal/postgres"
	"github.com/ariefcatur/korzinka-bot/internal/redisx"
	"github.com/ariefcatur/korzinka-bot/internal/shop"
	"github.com/ariefcatur/korzinka-bot/internal/telegram"
)

var memoryStore bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot and its HTTP endpoints",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&memoryStore, "memory", false, "keep catalog and carts in memory instead of Postgres")
}

type redisPinger struct{ rdb *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error { return p.rdb.Ping(ctx).Err() }

func runServe(cmd *cobra.Command, _ []string) error {
	if err := cfg.RequireBot(); err != nil {
		return err
	}
	ctx := cmd.Context()
	log := logger
	deps := map[string]httpx.Pinger{}

	var (
		catalog shop.Catalog
		cart    shop.Cart
	)
	if memoryStore {
		m := shop.NewMemoryStore()
		catalog, cart = m, m
		log.Warn("using in-memory store; data is lost on restart")
	} else {
		db, err := postgres.Connect(ctx, cfg.DB)
		if err != nil {
			return fmt.Errorf("startup: %w", err)
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			return fmt.Errorf("startup: %w", err)
		}
		catalog, cart = &shop.CatalogRepo{DB: db}, &shop.CartRepo{DB: db}
		deps["postgres"] = db
	}

	var dedup telegram.Deduper
	if cfg.RedisAddr != "" {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		dedup = &redisx.Dedup{RDB: rdb}
		deps["redis"] = redisPinger{rdb}
	}

	var publisher bot.CheckoutPublisher = events.Discard{}
	if len(cfg.KafkaBrokers) > 0 {
		prod := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicCartCheckedOut, 1024, log)
		prod.Start()
		defer func() {
			prod.Close()
			prod.WaitClosed()
		}()
		publisher = &events.Publisher{Sink: prod, Service: cfg.ServiceName}
	}

	router := &bot.Router{
		Catalog:   catalog,
		Cart:      cart,
		States:    dialog.NewTracker(),
		Admins:    bot.NewAllowList(cfg.AdminIDs),
		Publisher: publisher,
		Log:       log,
	}
	if len(cfg.AdminIDs) == 0 {
		log.Warn("ADMIN_IDS is empty; nobody can manage the catalog")
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return fmt.Errorf("startup: telegram: %w", err)
	}
	log.Info("authorized", zap.String("bot", api.Self.UserName))

	mux := httpx.NewRouter(log, deps)
	(&httpx.CatalogHandler{Catalog: catalog, Log: log}).Register(mux)
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	uc := tgbotapi.NewUpdate(0)
	uc.Timeout = 60
	updates := api.GetUpdatesChan(uc)
	disp := &telegram.Dispatcher{API: api, Handler: router, Dedup: dedup, Workers: cfg.BotWorkers, Log: log}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return disp.Run(gctx, updates)
	})
	g.Go(func() error {
		log.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		api.StopReceivingUpdates()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
