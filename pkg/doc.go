// Package pkg provides the core libraries for CropSignal crop-stress monitoring.
//
// # Overview
//
// CropSignal watches corn-belt NDVI (normalized difference vegetation index)
// through the Sentinel Hub Statistics API and raises alerts when a county
// falls behind its expected greenness for the growth stage. The pkg directory
// is organized into four main areas:
//
//  1. [sentinel] - Satellite data acquisition (OAuth2, Statistics API, caching)
//  2. [monitor] - Sweep orchestration (fetch → evaluate → persist → notify)
//  3. [history] / [cache] - Persistence (CSV or MongoDB history, file or Redis cache)
//  4. [alert] / [chart] - Delivery (Telegram, webhooks) and rendering (SVG, PNG)
//
// # Architecture
//
// The typical data flow through CropSignal:
//
//	Sentinel Hub Statistics API
//	         ↓
//	    [sentinel] package (fetch mean NDVI per zone, cached)
//	         ↓
//	    [stats] + [monitor] packages (anomaly, z-score, stage thresholds)
//	         ↓
//	    [history] package (append observation record)
//	         ↓
//	    [alert] + [chart] packages (Telegram message, report image)
//
// # Quick Start
//
// Run a sweep over the default zones with simulated data:
//
//	import (
//	    "context"
//	    "github.com/cropsignal/cropsignal/pkg/config"
//	    "github.com/cropsignal/cropsignal/pkg/history"
//	    "github.com/cropsignal/cropsignal/pkg/monitor"
//	    "github.com/cropsignal/cropsignal/pkg/sentinel"
//	)
//
//	cfg := config.Default()
//	store, _ := history.NewCSVStore(cfg.HistoryFile)
//	runner := monitor.NewRunner(*cfg, sentinel.NewSimulator(), store, nil)
//	res, _ := runner.Sweep(context.Background(), monitor.Options{})
//
// # Main Packages
//
// ## Data Acquisition
//
// [sentinel] - Sentinel Hub client: OAuth2 client-credentials token flow,
// Statistics API requests with an NDVI evalscript, response caching, and
// retry with backoff. A deterministic [sentinel.Simulator] stands in when no
// credentials are configured.
//
// [cache] - Cache backends for NDVI responses: file-based for the CLI,
// Redis for deployments, and a null backend for tests and --no-cache runs.
//
// ## Domain Logic
//
// [monitor] - Growth-stage thresholds, the sweep runner, and the daily
// scheduler. A zone alerts when NDVI is under the stage minimum and at least
// one corroborating signal fires (anomaly, z-score, or 7-day drop), subject
// to a per-zone cooldown.
//
// [stats] - Anomaly percentage, z-scores, and the production-weighted
// regional stress index.
//
// [history] - Observation records with CSV and MongoDB backends.
//
// ## Delivery
//
// [alert] - Telegram bot notifications (messages and report photos) and a
// generic webhook sink for spreadsheet-style row ingestion.
//
// [chart] - NDVI time-series and sweep-report rendering as SVG or PNG.
//
// ## Infrastructure
//
// [config] - TOML configuration, .env secrets, zone definitions with
// production weights and tiers.
//
// [errors] - Error codes and user-facing messages shared by the CLI and API.
//
// [httputil] - Retryable errors and backoff for outbound HTTP.
//
// [observability] - Optional hooks for sweep, cache, and HTTP events.
//
// [buildinfo] - Version metadata injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...               # All tests
//	go test ./pkg/monitor/...       # Specific package
//
// [sentinel]: https://pkg.go.dev/github.com/cropsignal/cropsignal/pkg/sentinel
// [monitor]: https://pkg.go.dev/github.com/cropsignal/cropsignal/pkg/monitor
// [history]: https://pkg.go.dev/github.com/cropsignal/cropsignal/pkg/history
// [cache]: https://pkg.go.dev/github.com/cropsignal/cropsignal/pkg/cache
// [alert]: https://pkg.go.dev/github.com/cropsignal/cropsignal/pkg/alert
// [chart]: https://pkg.go.dev/github.com/cropsignal/cropsignal/pkg/chart
// [stats]: https://pkg.go.dev/github.com/cropsignal/cropsignal/pkg/stats
// [config]: https://pkg.go.dev/github.com/cropsignal/cropsignal/pkg/config
// [errors]: https://pkg.go.dev/github.com/cropsignal/cropsignal/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/cropsignal/cropsignal/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/cropsignal/cropsignal/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/cropsignal/cropsignal/pkg/buildinfo
// [sentinel.Simulator]: https://pkg.go.dev/github.com/cropsignal/cropsignal/pkg/sentinel#Simulator
package pkg
