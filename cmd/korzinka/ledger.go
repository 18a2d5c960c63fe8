package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ariefcatur/korzinka-bot/internal/events"
	kafkax "github.com/ariefcatur/korzinka-bot/internal/kafka"
	"github.com/ariefcatur/korzinka-bot/internal/ledger"
	"github.com/ariefcatur/korzinka-bot/internal/postgres"
	"github.com/ariefcatur/korzinka-bot/internal/redisx"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Record checkout events as order history",
	RunE:  runLedger,
}

func runLedger(cmd *cobra.Command, _ []string) error {
	if err := cfg.RequireKafka(); err != nil {
		return err
	}
	ctx := cmd.Context()

	db, err := postgres.Connect(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		return fmt.Errorf("startup: %w", err)
	}

	svc := &ledger.Service{Orders: &ledger.Repo{DB: db}, Log: logger}
	if cfg.RedisAddr != "" {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		svc.Dedup = &redisx.Dedup{RDB: rdb}
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.LedgerGroup, events.TopicCartCheckedOut, cfg.LedgerWorkers, logger)
	logger.Info("ledger consumer started",
		zap.String("group", cfg.LedgerGroup),
		zap.String("topic", events.TopicCartCheckedOut),
		zap.Int("workers", cfg.LedgerWorkers))
	return cons.Start(ctx, svc.HandleCheckout)
}
