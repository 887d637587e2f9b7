// Package main - точка входа для фонового процесса (Worker).
//
// Worker отвечает за периодические задачи:
// - Полный пересчёт счётчиков прогресса по всем специализациям
// - Обновление расчётных дат окончания после отпусков и больничных
// - Инвалидация кешированных представлений после пересчёта
//
// Пересчёт идемпотентен: счётчики восстанавливаются из первичных
// записей, поэтому Worker можно безопасно перезапускать в любой момент.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/smk-hub/residency-training-hub/config"
	"github.com/smk-hub/residency-training-hub/internal/application/command"
	"github.com/smk-hub/residency-training-hub/internal/domain/specialization"
	"github.com/smk-hub/residency-training-hub/internal/infrastructure/persistence/postgres"
	"github.com/smk-hub/residency-training-hub/internal/infrastructure/persistence/redis"
	"github.com/smk-hub/residency-training-hub/pkg/logger"
)

// lockResource - имя ресурса распределённой блокировки пересчёта.
// Блокировка гарантирует, что при нескольких экземплярах Worker
// полный пересчёт выполняет только один из них.
const lockResource = "progress-recompute"

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.Setup(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	log.Info("starting residency training hub worker",
		"env", string(cfg.App.Environment),
		"debug", cfg.App.Debug,
		"timezone", cfg.App.Timezone,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ЗАПУСК МИГРАЦИЙ (Worker тоже должен видеть актуальную схему)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("checking database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database schema is up to date")

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var cache *redis.Cache
	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		cache, err = redis.NewCache(redisCfg)
		if err != nil {
			// Пересчёт работает и без Redis: пропадает только кеш и
			// распределённая блокировка.
			log.Warn("failed to connect to Redis, cache invalidation disabled", "error", err)
			cache = nil
		} else {
			defer cache.Close()
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ И ПЕРЕСЧЁТА
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	specRepo := postgres.NewSpecializationRepository(dbConn)
	recompute := command.NewRecomputeProgressHandler(
		specRepo,
		postgres.NewModuleRepository(dbConn),
		postgres.NewInternshipRepository(dbConn),
		postgres.NewProcedureRepository(dbConn),
		postgres.NewShiftRepository(dbConn),
		postgres.NewCourseRepository(dbConn),
		postgres.NewSelfEducationRepository(dbConn),
		postgres.NewAbsenceRepository(dbConn),
	)

	w := &worker{
		cfg:       cfg.Worker,
		log:       log,
		specRepo:  specRepo,
		recompute: recompute,
		cache:     cache,
	}
	if cache != nil {
		w.invalidator = redis.NewInvalidator(cache)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. WORKER LOOP + GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if cfg.Worker.Enabled {
		log.Info("starting recompute loop",
			"interval", cfg.Worker.RecomputeInterval.String(),
			"job_timeout", cfg.Worker.JobTimeout.String(),
		)
		w.loop(runCtx)
	} else {
		log.Info("worker disabled, waiting for shutdown signal")
		<-runCtx.Done()
	}

	log.Info("shutdown completed successfully")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// RECOMPUTE WORKER
// ══════════════════════════════════════════════════════════════════════════════

type progressRecomputer interface {
	RecomputeSpecialization(ctx context.Context, specializationID string) error
}

type worker struct {
	cfg         config.WorkerConfig
	log         *slog.Logger
	specRepo    specialization.Repository
	recompute   progressRecomputer
	cache       *redis.Cache
	invalidator *redis.Invalidator
}

// loop выполняет пересчёт сразу при старте и далее по таймеру.
func (w *worker) loop(ctx context.Context) {
	w.runOnce(ctx)

	ticker := time.NewTicker(w.cfg.RecomputeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// runOnce выполняет один полный проход пересчёта под распределённой
// блокировкой. Если блокировку держит другой экземпляр, проход
// пропускается.
func (w *worker) runOnce(ctx context.Context) {
	jobCtx, cancel := context.WithTimeout(ctx, w.cfg.JobTimeout)
	defer cancel()

	release, ok := w.acquireLock(jobCtx)
	if !ok {
		w.log.Debug("recompute lock held by another instance, skipping run")
		return
	}
	defer release()

	started := time.Now()
	specs, err := w.specRepo.GetAll(jobCtx)
	if err != nil {
		w.log.Error("failed to list specializations", "error", err)
		return
	}

	var failed int
	for _, spec := range specs {
		if err := w.recompute.RecomputeSpecialization(jobCtx, spec.ID); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				w.log.Warn("recompute run interrupted", "error", err)
				return
			}
			failed++
			w.log.Error("failed to recompute specialization",
				logger.SpecializationID(spec.ID),
				"error", err)
			continue
		}
		if w.invalidator != nil {
			if err := w.invalidator.InvalidateSpecialization(jobCtx, spec.ID); err != nil {
				w.log.Warn("failed to invalidate specialization cache",
					logger.SpecializationID(spec.ID),
					"error", err)
			}
		}
	}

	w.log.Info("recompute run finished",
		"specializations", len(specs),
		"failed", failed,
		logger.Latency(time.Since(started)),
	)
}

// acquireLock берёт распределённую блокировку через Redis SETNX.
// Без Redis блокировка вырождается в no-op: считаем, что экземпляр один.
func (w *worker) acquireLock(ctx context.Context) (release func(), ok bool) {
	if w.cache == nil {
		return func() {}, true
	}

	key := redis.LockKey(lockResource)
	acquired, err := w.cache.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), w.cfg.LockTTL)
	if err != nil {
		w.log.Warn("failed to acquire recompute lock, proceeding without it", "error", err)
		return func() {}, true
	}
	if !acquired {
		return nil, false
	}

	return func() {
		if err := w.cache.Delete(context.WithoutCancel(ctx), key); err != nil {
			w.log.Warn("failed to release recompute lock", "error", err)
		}
	}, true
}
