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

	"scholarship-workers/internal/common/camunda"
	"scholarship-workers/internal/common/config"
	"scholarship-workers/internal/common/database"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/observability"
	"scholarship-workers/pkg/registry"

	// Application Workers (2)
	car "scholarship-workers/internal/workers/application/create-application-record"
	sn "scholarship-workers/internal/workers/application/send-notification"

	// Matching Workers (2)
	em "scholarship-workers/internal/workers/matching/evaluate-match"
	rs "scholarship-workers/internal/workers/matching/rank-scholarships"

	// Profile Workers (1)
	vpd "scholarship-workers/internal/workers/profile/validate-profile-data"

	// Scholarship Data Workers (2)
	qs "scholarship-workers/internal/workers/scholarship/query-scholarships"
	ss "scholarship-workers/internal/workers/scholarship/search-scholarships"
)

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
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// Sanity-check the worker registry before connecting anywhere.
	if reg, err := registry.LoadRegistry(cfg.Registry.Path); err != nil {
		zapLog.Warn("worker registry not loaded", zap.String("path", cfg.Registry.Path), zap.Error(err))
	} else if err := reg.Validate(); err != nil {
		zapLog.Fatal("worker registry invalid", zap.Error(err))
	} else {
		zapLog.Info("worker registry loaded", zap.Int("workers", len(reg.Workers)))
	}

	// --- Init Zeebe Client with retry ---
	var zeebeClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
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

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Register Workers ---
	var workers []*camunda.Worker

	// --- 1. Matching Workers (2) ---
	if cfg.Workers[em.TaskType].Enabled {
		handler := em.NewHandler(
			&em.Config{
				CacheTTL:         config.GetDuration(cfg.Matching.ProfileCacheTTL),
				Timeout:          config.GetDuration(cfg.Workers[em.TaskType].Timeout),
				KeywordTablePath: cfg.Matching.KeywordTablePath,
			},
			pg.DB, redis.Client, log,
		)
		workers = append(workers, startWorker(zeebeClient, em.TaskType, cfg.Workers[em.TaskType], handler.Handle, zapLog))
	}

	if cfg.Workers[rs.TaskType].Enabled {
		handler := rs.NewHandler(
			&rs.Config{
				Timeout:          config.GetDuration(cfg.Workers[rs.TaskType].Timeout),
				MaxItems:         cfg.Matching.MaxRankedItems,
				KeywordTablePath: cfg.Matching.KeywordTablePath,
			},
			log,
		)
		workers = append(workers, startWorker(zeebeClient, rs.TaskType, cfg.Workers[rs.TaskType], handler.Handle, zapLog))
	}

	// --- 2. Scholarship Data Workers (2) ---
	if cfg.Workers[qs.TaskType].Enabled {
		handler := qs.NewHandler(
			&qs.Config{
				Timeout: config.GetDuration(cfg.Workers[qs.TaskType].Timeout),
			},
			pg.DB, log,
		)
		workers = append(workers, startWorker(zeebeClient, qs.TaskType, cfg.Workers[qs.TaskType], handler.Handle, zapLog))
	}

	if cfg.Workers[ss.TaskType].Enabled {
		handler := ss.NewHandler(
			&ss.Config{
				Timeout:      config.GetDuration(cfg.Workers[ss.TaskType].Timeout),
				DefaultIndex: cfg.Database.Elasticsearch.Index,
			},
			esClient.Client, log,
		)
		workers = append(workers, startWorker(zeebeClient, ss.TaskType, cfg.Workers[ss.TaskType], handler.Handle, zapLog))
	}

	// --- 3. Application Workers (2) ---
	if cfg.Workers[car.TaskType].Enabled {
		handler := car.NewHandler(
			&car.Config{
				Timeout: config.GetDuration(cfg.Workers[car.TaskType].Timeout),
			},
			pg.DB, log,
		)
		workers = append(workers, startWorker(zeebeClient, car.TaskType, cfg.Workers[car.TaskType], handler.Handle, zapLog))
	}

	if cfg.Workers[sn.TaskType].Enabled {
		handler, err := sn.NewHandler(
			&sn.Config{
				EmailEnabled:     cfg.Notifications.Email.Enabled,
				SMSEnabled:       cfg.Notifications.SMS.Enabled,
				FromEmail:        cfg.Notifications.Email.FromEmail,
				AWSRegion:        cfg.Notifications.AWS.Region,
				TemplateRegistry: cfg.Notifications.TemplatePath,
				Timeout:          config.GetDuration(cfg.Workers[sn.TaskType].Timeout),
			},
			pg.DB, log,
		)
		if err != nil {
			zapLog.Fatal("failed to create send-notification handler", zap.Error(err))
		}
		workers = append(workers, startWorker(zeebeClient, sn.TaskType, cfg.Workers[sn.TaskType], handler.Handle, zapLog))
	}

	// --- 4. Profile Workers (1) ---
	if cfg.Workers[vpd.TaskType].Enabled {
		handler := vpd.NewHandler(
			&vpd.Config{
				Timeout: config.GetDuration(cfg.Workers[vpd.TaskType].Timeout),
			},
			log,
		)
		workers = append(workers, startWorker(zeebeClient, vpd.TaskType, cfg.Workers[vpd.TaskType], handler.Handle, zapLog))
	}

	zapLog.Info("All workers registered successfully")

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
			w.Header().Set("Content-Type", "application/json")
			if err := zeebeClient.HealthCheck(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
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

	for _, w := range workers {
		if w != nil {
			w.Stop()
		}
	}

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client *camunda.Client, taskType string, wcfg config.WorkerConfig, handler camunda.HandlerFunc, log *zap.Logger) *camunda.Worker {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return nil
	}

	return client.OpenWorker(camunda.WorkerOptions{
		TaskType:      taskType,
		MaxJobsActive: wcfg.MaxJobsActive,
		Timeout:       time.Duration(wcfg.Timeout) * time.Millisecond,
	}, handler, log)
}
