package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"knowledge-network/internal/assets"
	"knowledge-network/internal/audit"
	"knowledge-network/internal/auth"
	"knowledge-network/internal/config"
	"knowledge-network/internal/httpapi"
	"knowledge-network/internal/locks"
	"knowledge-network/internal/migrations"
	"knowledge-network/internal/recommend"
	"knowledge-network/internal/reporting"
	"knowledge-network/internal/scoring"
	"knowledge-network/internal/trainings"
	"knowledge-network/internal/users"
	"knowledge-network/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// stores bundles one repository per component plus the shared unit-of-work
// runner and review locker.
type stores struct {
	users     users.Repository
	assets    assets.Repository
	scores    scoring.Repository
	audit     audit.Repository
	trainings trainings.Repository
	tx        utils.Transactor
	locker    locks.Locker
	checks    map[string]httpapi.Check
	close     func()
}

func memoryStores() stores {
	return stores{
		users:     users.NewMemoryRepo(),
		assets:    assets.NewMemoryRepo(),
		scores:    scoring.NewMemoryRepo(),
		audit:     audit.NewMemoryRepo(),
		trainings: trainings.NewMemoryRepo(trainings.Catalog()...),
		tx:        utils.NewMemoryTransactor(),
		locker:    locks.NewMemory(),
		checks:    map[string]httpapi.Check{},
		close:     func() {},
	}
}

func postgresStores(ctx context.Context, cfg config.Config, log *slog.Logger) (stores, error) {
	db, err := utils.OpenPostgres(ctx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		return stores{}, fmt.Errorf("postgres init: %w", err)
	}
	if cfg.Store.MigrateOnStart {
		if err := migrations.Up(ctx, db); err != nil {
			_ = db.Close()
			return stores{}, fmt.Errorf("migrations: %w", err)
		}
		log.Info("migrations applied")
	}

	rdb, err := utils.OpenRedis(ctx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		_ = db.Close()
		return stores{}, fmt.Errorf("redis init: %w", err)
	}
	locker, err := locks.NewRedis(rdb, "dkn:review-lock:", cfg.Review.LockTTL)
	if err != nil {
		_ = rdb.Close()
		_ = db.Close()
		return stores{}, err
	}

	return stores{
		users:     users.NewPostgresRepo(db),
		assets:    assets.NewPostgresRepo(db),
		scores:    scoring.NewPostgresRepo(db),
		audit:     audit.NewPostgresRepo(db),
		trainings: trainings.NewPostgresRepo(db),
		tx:        utils.NewSQLTransactor(db),
		locker:    locker,
		checks:    readinessChecks(db, rdb),
		close: func() {
			_ = rdb.Close()
			_ = db.Close()
		},
	}, nil
}

func readinessChecks(db *sql.DB, rdb *redis.Client) map[string]httpapi.Check {
	return map[string]httpapi.Check{
		"postgres": func(ctx context.Context) error { return utils.HealthCheck(ctx, db, time.Second) },
		"redis":    func(ctx context.Context) error { return utils.PingRedis(ctx, rdb, time.Second) },
	}
}

// buildHandlers wires the services over s.
func buildHandlers(s stores, tokens *auth.Manager) httpapi.Handlers {
	directory := users.NewDirectory(s.users)
	ledger := scoring.NewLedger(s.scores, directory)
	auditSvc := audit.NewService(s.audit)
	engine := assets.NewEngine(s.assets, s.tx, ledger, auditSvc, s.locker).WithDirectory(directory)
	userSvc := users.NewService(s.users, s.tx, ledger, tokens)
	trainingSvc := trainings.NewService(s.trainings, s.tx, ledger)

	return httpapi.Handlers{
		Users:     userSvc,
		Assets:    engine,
		Ledger:    ledger,
		Audit:     auditSvc,
		Trainings: trainingSvc,
		Recommend: recommend.New(engine, userSvc),
		Reports:   reporting.NewService(engine, userSvc, trainingSvc),
	}
}
