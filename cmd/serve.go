package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fvnks/konecte-relay/internal/config"
	"github.com/fvnks/konecte-relay/internal/db"
	httpSrv "github.com/fvnks/konecte-relay/internal/http"
	"github.com/fvnks/konecte-relay/internal/kafka"
	"github.com/fvnks/konecte-relay/internal/logger"
	"github.com/fvnks/konecte-relay/internal/repository"
	"github.com/fvnks/konecte-relay/internal/service/access"
	"github.com/fvnks/konecte-relay/internal/service/relay"
	"github.com/fvnks/konecte-relay/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the relay HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger.Init(cfg.Log.Level)
		defer logger.Sync()

		mysqlDB, err := db.NewMySQL(cfg.MySQL.DSN, db.PoolOpts{
			MaxOpenConns:    cfg.MySQL.MaxOpenConns,
			MaxIdleConns:    cfg.MySQL.MaxIdleConns,
			ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.MySQL.ConnMaxIdleTime,
			PingTimeout:     cfg.MySQL.PingTimeout,
		})
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer mysqlDB.Close()

		var rds *redis.Client
		if cfg.Redis.Enabled {
			rds, err = db.NewRedisClient(db.RedisOpts{
				Addr:        cfg.Redis.Addr,
				Password:    cfg.Redis.Password,
				DB:          cfg.Redis.DB,
				DialTimeout: cfg.Redis.DialTimeout,
			})
			if err != nil {
				return fmt.Errorf("redis connect: %w", err)
			}
			defer func() { _ = rds.Close() }()
		}

		var auditRepo repository.AuditRepository
		if cfg.Audit.Enabled {
			chDB, err := db.NewClickHouse(cfg.ClickHouse.DSN, db.PoolOpts{
				MaxOpenConns:    cfg.ClickHouse.MaxOpenConns,
				MaxIdleConns:    cfg.ClickHouse.MaxIdleConns,
				ConnMaxLifetime: cfg.ClickHouse.ConnMaxLifetime,
				ConnMaxIdleTime: cfg.ClickHouse.ConnMaxIdleTime,
				PingTimeout:     cfg.ClickHouse.PingTimeout,
			})
			if err != nil {
				return fmt.Errorf("clickhouse connect: %w", err)
			}
			defer func() { _ = chDB.Close() }()
			auditRepo = repository.NewAuditRepository(chDB)
		}

		convStore := store.NewConversationStore()
		relaySvc := relay.New(convStore, auditRepo)
		accessSvc := access.New(repository.NewUsersRepository(mysqlDB))

		server := httpSrv.NewServer(cfg, relaySvc, accessSvc, auditRepo, rds)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// The reply bridge shares the in-process conversation store, so it
		// runs inside serve rather than as a separate worker command.
		if cfg.Kafka.Enabled {
			consumer := kafka.NewConsumerFromConfig(kafka.Config{
				Brokers:        cfg.Kafka.Brokers,
				Topic:          cfg.Kafka.RepliesTopic,
				GroupID:        cfg.Kafka.GroupID,
				MinBytes:       cfg.Kafka.MinBytes,
				MaxBytes:       cfg.Kafka.MaxBytes,
				CommitInterval: time.Duration(cfg.Kafka.CommitInterval) * time.Millisecond,
			})
			defer func() { _ = consumer.Close() }()

			bridge := &kafka.ReplyBridge{Consumer: consumer, Relay: relaySvc}
			go func() {
				if err := bridge.Run(ctx); err != nil {
					log.Printf("reply bridge exited: %v", err)
				}
			}()
		}

		errCh := make(chan error, 1)
		go func() {
			log.Printf("starting http on %s", cfg.HTTP.Addr)
			errCh <- server.Start(cfg.HTTP.Addr)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			log.Printf("signal received: %s, shutting down...", sig)
		case err := <-errCh:
			if err != nil {
				log.Printf("http server exited: %v", err)
			}
		}

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = server.Shutdown(shutdownCtx)

		return nil
	},
}
