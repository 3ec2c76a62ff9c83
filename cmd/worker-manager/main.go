// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"matching-engine/internal/common/camunda"
	"matching-engine/internal/common/config"
	"matching-engine/internal/common/database"
	"matching-engine/internal/common/logger"
	"matching-engine/internal/common/observability"
	"matching-engine/internal/matching/engine"
	"matching-engine/internal/matching/rank"
	"matching-engine/internal/store"
	"matching-engine/pkg/registry"

	cms "matching-engine/internal/workers/matching/compute-match-score"
	rc "matching-engine/internal/workers/matching/rank-candidates"
)

const taskRegistryPath = "configs/task-registry.json"

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	// Re-create the logger now that configuration is known.
	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Camunda client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Match engine and stores ---
	eng, err := engine.New(engineConfig(cfg.Matching), log)
	if err != nil {
		zapLog.Fatal("invalid matching configuration", zap.Error(err))
	}

	cacheTTL := time.Duration(cfg.Matching.ProfileCacheTTL) * time.Second
	profileStore := store.NewProfileStore(pg.DB, redisClient, cacheTTL, log)
	candidateStore := store.NewCandidateStore(pg.DB, log)
	searchStore := store.NewSearchStore(esClient.Client, "candidates", log)
	ranker := rank.NewService(eng, cfg.Matching.PoolSize, log)

	// Task registry is advisory: it refines per-task settings when present.
	taskReg, err := registry.LoadRegistry(taskRegistryPath)
	if err != nil {
		zapLog.Warn("task registry not loaded, using config defaults", zap.Error(err))
		taskReg = &registry.TaskRegistry{}
	}

	var workers []*camunda.CamundaWorker

	if config.IsWorkerEnabled(cfg, cms.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, cms.TaskType)
		handler := cms.NewHandler(
			&cms.Config{
				Timeout: time.Duration(wcfg.Timeout) * time.Millisecond,
			},
			eng, profileStore, log,
		)
		w := camunda.NewWorker(zeebeClient, cms.TaskType,
			maxJobsActive(taskReg, cms.TaskType, wcfg),
			time.Duration(wcfg.Timeout)*time.Millisecond,
			handler.Handle, zapLog)
		w.Start()
		workers = append(workers, w)
	}

	if config.IsWorkerEnabled(cfg, rc.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, rc.TaskType)
		handler := rc.NewHandler(
			&rc.Config{
				Timeout:         time.Duration(wcfg.Timeout) * time.Millisecond,
				DefaultPageSize: cfg.Matching.PageSize,
			},
			ranker, profileStore, candidateStore, searchStore, log,
		)
		w := camunda.NewWorker(zeebeClient, rc.TaskType,
			maxJobsActive(taskReg, rc.TaskType, wcfg),
			time.Duration(wcfg.Timeout)*time.Millisecond,
			handler.Handle, zapLog)
		w.Start()
		workers = append(workers, w)
	}

	zapLog.Info("All workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			status := "ready"
			code := http.StatusOK
			if err := camundaClient.HealthCheck(r.Context()); err != nil {
				status = "broker unreachable"
				code = http.StatusServiceUnavailable
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(code)
			json.NewEncoder(w).Encode(map[string]string{
				"status": status,
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop(shutdownCtx)
	}

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped")
}

// engineConfig converts file configuration into the engine's config type.
func engineConfig(m config.MatchingConfig) engine.Config {
	return engine.Config{
		Weights: engine.Weights{
			Skills:     m.Weights.Skills,
			Location:   m.Weights.Location,
			Price:      m.Weights.Price,
			Urgency:    m.Weights.Urgency,
			Reputation: m.Weights.Reputation,
		},
		Boosts:          m.Boosts,
		LocationDecayKm: m.LocationDecayKm,
	}
}

// maxJobsActive prefers the task registry entry, then the worker config.
func maxJobsActive(reg *registry.TaskRegistry, taskType string, wcfg config.WorkerConfig) int {
	if task := reg.FindByTaskType(taskType); task != nil && task.MaxJobsActive > 0 {
		return task.MaxJobsActive
	}
	return wcfg.MaxJobsActive
}
