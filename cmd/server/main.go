package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/seat-allocation/internal/config"
	"github.com/iliyamo/seat-allocation/internal/database"
	"github.com/iliyamo/seat-allocation/internal/handler"
	"github.com/iliyamo/seat-allocation/internal/identity"
	"github.com/iliyamo/seat-allocation/internal/logging"
	"github.com/iliyamo/seat-allocation/internal/queue"
	"github.com/iliyamo/seat-allocation/internal/repository"
	"github.com/iliyamo/seat-allocation/internal/repository/memstore"
	"github.com/iliyamo/seat-allocation/internal/router"
	"github.com/iliyamo/seat-allocation/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	store, db, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	resolver, err := identity.New(identity.Options{
		Mode:         cfg.IdentityMode,
		DevPrincipal: cfg.DevPrincipal,
		JWTSecret:    cfg.JWTSecret,
	})
	if err != nil {
		return err
	}

	var events queue.Publisher = queue.NopPublisher{}
	if cfg.EventsEnabled {
		events = queue.NewRabbitPublisher(cfg.RabbitURL)
	}

	var rdb *redis.Client
	if cfg.Cache.Enabled {
		if rdb = config.NewRedisClient(cfg.Redis); rdb == nil {
			log.WithField("addr", cfg.Redis.Addr).Warn("redis unreachable, response cache disabled")
		} else {
			defer rdb.Close()
		}
	}

	h := handler.New(
		service.NewRegistrar(store),
		service.NewShiftService(store),
		service.NewAllocationService(store, events),
	)
	deps := router.Deps{
		Handler:  h,
		Resolver: resolver,
		Logger:   log,
		Redis:    rdb,
		Cache:    cfg.Cache,
	}
	if db != nil {
		deps.DB = db
	}
	e := router.New(deps)

	errc := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":     ":" + cfg.Port,
			"env":      cfg.Env,
			"store":    cfg.StoreDriver,
			"identity": cfg.IdentityMode,
		}).Info("listening")
		errc <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}

// openStore returns the configured Store.  db is nil for the memory driver.
func openStore(ctx context.Context, cfg config.Config, log *logrus.Logger) (repository.Store, *sql.DB, error) {
	if cfg.StoreDriver == config.DriverMemory {
		log.Warn("using in-memory store, data is lost on restart")
		return memstore.New(), nil, nil
	}

	db, err := database.Open(ctx, database.Options{
		User: cfg.DBUser,
		Pass: cfg.DBPass,
		Host: cfg.DBHost,
		Port: cfg.DBPort,
		Name: cfg.DBName,
	})
	if err != nil {
		return nil, nil, err
	}
	if cfg.DBAutoMigrate {
		if err := database.MigrateUp(ctx, db, log); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}
	return repository.NewMySQLStore(db), db, nil
}
