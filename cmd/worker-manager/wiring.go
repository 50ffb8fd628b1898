// cmd/worker-manager/wiring.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bankimport-workers/internal/common/aws"
	"bankimport-workers/internal/common/camunda"
	"bankimport-workers/internal/common/config"
	"bankimport-workers/internal/common/database"
	"bankimport-workers/internal/common/logger"
	"bankimport-workers/internal/links"
	"bankimport-workers/internal/notify"
	"bankimport-workers/internal/presenter"
	"bankimport-workers/internal/routing"

	ctm "bankimport-workers/internal/workers/bank-import/classify-transaction-match"
	rtl "bankimport-workers/internal/workers/bank-import/resolve-transaction-links"
)

var redisRetry = &camunda.RetryConfig{MaxRetries: 5, BaseDelay: time.Second, MaxDelay: 8 * time.Second}

type sinkSet struct {
	sink  presenter.Sink
	redis *database.RedisClient
}

func (s sinkSet) close(log logger.Logger) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Close(); err != nil {
		log.Error("Error closing Redis client", map[string]interface{}{"error": err.Error()})
	}
}

// buildSink connects only the client the configured sink needs.
func buildSink(ctx context.Context, cfg *config.Config, log logger.Logger) (sinkSet, error) {
	var set sinkSet
	deps := notify.Deps{Logger: log}

	switch cfg.Notifications.Sink {
	case config.SinkRedis:
		set.redis = database.NewRedis(cfg.Database.Redis)
		if err := camunda.Retry(ctx, redisRetry, "redis connect", log, set.redis.Ping); err != nil {
			_ = set.redis.Close()
			return sinkSet{}, err
		}
		deps.Redis = set.redis
	case config.SinkSNS:
		client, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			return sinkSet{}, err
		}
		deps.SNS = client
	}

	sink, err := notify.FromConfig(cfg.Notifications, deps)
	if err != nil {
		set.close(log)
		return sinkSet{}, err
	}
	set.sink = sink
	return set, nil
}

func buildLinkBuilder(cfg *config.Config) *links.Builder {
	policy := routing.NewPolicy(routing.Config{
		PolicyByContext:   cfg.Routing.PolicyByContext,
		PolicyByTransType: cfg.Routing.PolicyByTransType,
	})
	return links.NewBuilder(
		links.WithDeriveLinks(cfg.Links.DeriveLinks),
		links.WithDeriver(links.NewDeriver(links.WithBaseURL(cfg.Links.BaseURL))),
		links.WithPrioritizer(policy),
	)
}

func resolveConfig(cfg *config.Config) *rtl.Config {
	c := rtl.LoadConfig()
	if ms := config.GetWorkerConfig(cfg, rtl.TaskType).Timeout; ms > 0 {
		c.Timeout = config.GetDuration(ms)
	}
	c.DeriveLinks = cfg.Links.DeriveLinks
	c.BaseURL = cfg.Links.BaseURL
	return c
}

func classifyConfig(cfg *config.Config) *ctm.Config {
	c := ctm.LoadConfig()
	if ms := config.GetWorkerConfig(cfg, ctm.TaskType).Timeout; ms > 0 {
		c.Timeout = config.GetDuration(ms)
	}
	c.MinScore = cfg.Classification.MinScore
	return c
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

type healthCheckFunc func(ctx context.Context) error

func (f healthCheckFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

// newStatusMux serves liveness, readiness and Prometheus metrics. Readiness
// fails when any dependency check fails.
func newStatusMux(checks map[string]healthChecker) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		failures := map[string]string{}
		for name, check := range checks {
			if err := check.HealthCheck(ctx); err != nil {
				failures[name] = err.Error()
			}
		}
		if len(failures) > 0 {
			writeStatus(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status":   "not ready",
				"failures": failures,
				"time":     time.Now().Format(time.RFC3339),
			})
			return
		}
		writeStatus(w, http.StatusOK, map[string]interface{}{
			"status": "ready",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeStatus(w http.ResponseWriter, code int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
