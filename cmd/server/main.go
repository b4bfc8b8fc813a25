package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"taskboard/config"
	"taskboard/internal/events"
	"taskboard/internal/handler"
	"taskboard/internal/httpserver"
	"taskboard/internal/repository"
	"taskboard/internal/seed"
	"taskboard/internal/service/task"
	"taskboard/internal/store"
	"taskboard/pkg/circuitbreaker"
	"taskboard/pkg/db"
	"taskboard/pkg/logger"
	"taskboard/pkg/mq"
	"taskboard/pkg/outbox"
	"taskboard/pkg/redis"
	"taskboard/pkg/util"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger(cfg.Log.Level)
	defer log.Sync()

	log.Info("Starting taskboard...",
		zap.String("store", cfg.Store.Driver),
		zap.String("port", cfg.Server.Port),
		zap.Bool("redis", cfg.Redis.Addr != ""),
		zap.Bool("mq", cfg.MQ.URL != ""),
	)

	ctx := context.Background()
	var checks []httpserver.ReadinessCheck

	// Storage
	var (
		userRepo store.UserRepository
		taskRepo store.TaskRepository
		pool     *pgxpool.Pool
	)
	switch cfg.Store.Driver {
	case config.StorePostgres:
		log.Info("Initializing database connection...")
		var err error
		pool, err = db.NewConnection(ctx, cfg.DB, log)
		if err != nil {
			log.Fatal("Failed to init DB", zap.Error(err))
		}
		defer pool.Close()
		if err := repository.EnsureSchema(ctx, pool); err != nil {
			log.Fatal("Failed to ensure schema", zap.Error(err))
		}
		log.Info("Database connection established successfully")

		userRepo = repository.NewPostgresUserRepository(pool, log)
		taskRepo = repository.NewPostgresTaskRepository(pool, log)
		checks = append(checks, httpserver.ReadinessCheck{Name: "db", Ping: pool.Ping})
	default:
		userRepo = repository.NewMemoryUserRepository()
		taskRepo = repository.NewMemoryTaskRepository(log)
	}

	// 用户名单总是写入，seed 开关只控制随机任务
	if err := seed.EnsureRoster(ctx, userRepo, seed.Roster(), log); err != nil {
		log.Fatal("Failed to seed roster", zap.Error(err))
	}
	if cfg.Seed.Enabled {
		f, err := seed.Build(cfg.Seed.Value, time.Now(), seed.Roster())
		if err != nil {
			log.Fatal("Failed to build fixtures", zap.Error(err))
		}
		if err := seed.Load(ctx, userRepo, taskRepo, f, log); err != nil {
			log.Fatal("Failed to seed stores", zap.Error(err))
		}
	}

	// Events
	dispatchCtx, stopDispatch := context.WithCancel(ctx)
	defer stopDispatch()

	var publisher events.Publisher = events.Nop{}
	if cfg.MQ.URL != "" {
		log.Info("Initializing MQ publisher...")
		p, err := mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			log.Fatal("Failed to init MQ publisher", zap.Error(err))
		}
		defer p.Close()

		if pool != nil {
			// postgres 可用时走 outbox，由 dispatcher 重试投递
			box := outbox.NewRepository(pool)
			if err := box.EnsureSchema(ctx); err != nil {
				log.Fatal("Failed to ensure outbox schema", zap.Error(err))
			}
			publisher = box
			dispatcher := outbox.NewDispatcher(box, p, log)
			if cfg.MQ.MaxRetries > 0 {
				dispatcher.WithMaxRetries(cfg.MQ.MaxRetries)
			}
			go dispatcher.Start(dispatchCtx)
		} else {
			publisher = events.NewGuarded(p, circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig()), log)
		}
		checks = append(checks, httpserver.ReadinessCheck{Name: "mq", Ping: func(context.Context) error {
			if !p.IsConnected() {
				return errors.New("connection closed")
			}
			return nil
		}})
	}

	// Idempotency
	var dedup handler.Deduper
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer rdb.Close()
		dedup = util.NewDeduper(rdb, 24*time.Hour, log)
		checks = append(checks, httpserver.ReadinessCheck{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}

	users, err := store.NewUserStore(ctx, userRepo, publisher, log)
	if err != nil {
		log.Fatal("Failed to init user store", zap.Error(err))
	}
	tasks := store.NewTaskStore(taskRepo, log, store.WithPublisher(publisher))
	svc := task.NewService(tasks, users, log)

	ttl, err := cfg.TokenTTL()
	if err != nil {
		log.Fatal("Invalid token ttl", zap.Error(err))
	}
	router := httpserver.NewRouter(httpserver.Handlers{
		Session: handler.NewSessionHandler(users, cfg.JWT.Secret, ttl, log),
		Users:   handler.NewUserHandler(users, log),
		Tasks:   handler.NewTaskHandler(svc, dedup, log),
		Views:   handler.NewViewHandler(tasks, log, time.Now),
	}, users, cfg.JWT.Secret, log, checks...)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router.Engine,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 优雅退出处理
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down taskboard gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	stopDispatch()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	log.Info("taskboard shutdown complete")
}
