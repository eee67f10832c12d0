package main

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"policeapp/internal/config"
	"policeapp/internal/repository"
	"policeapp/internal/repository/memory"
	"policeapp/internal/repository/postgres"
	"policeapp/internal/repository/redis"
)

// stores bundles the repositories selected by configuration together with
// whatever must be closed on shutdown.
type stores struct {
	users    repository.UserRepository
	reports  repository.ReportRepository
	feedback repository.FeedbackRepository
	locks    repository.LockManager

	closers []func()
}

func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func openStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*stores, error) {
	st := &stores{}

	switch cfg.Store.Driver {
	case config.StorePostgres:
		db, err := postgres.Open(ctx, cfg.Store.PostgresDSN, cfg.Store.MaxOpenConn, cfg.Store.MaxIdleConn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		st.closers = append(st.closers, func() { _ = db.Close() })
		if err := postgres.EnsureSchema(ctx, db, log.Named("postgres")); err != nil {
			st.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		st.usePostgres(db)
		log.Info("store_selected", zap.String("driver", "postgres"))
	default:
		st.users = memory.NewUserRepository()
		st.reports = memory.NewReportRepository()
		st.feedback = memory.NewFeedbackRepository()
		log.Info("store_selected", zap.String("driver", "memory"))
	}

	if cfg.Redis.Addr != "" {
		client, err := redis.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("open redis: %w", err)
		}
		st.closers = append(st.closers, func() { _ = client.Close() })
		st.locks = redis.NewLockManager(client)
		log.Info("locks_selected", zap.String("backend", "redis"), zap.String("addr", cfg.Redis.Addr))
	} else {
		lm := memory.NewLockManager(0)
		st.closers = append(st.closers, lm.Stop)
		st.locks = lm
		log.Info("locks_selected", zap.String("backend", "memory"))
	}

	return st, nil
}

func (s *stores) usePostgres(db *sql.DB) {
	s.users = postgres.NewUserRepository(db)
	s.reports = postgres.NewReportRepository(db)
	s.feedback = postgres.NewFeedbackRepository(db)
}
