// Package status serves the pipeline's observability endpoints during a
// build: Prometheus metrics on /metrics, a JSON progress snapshot on
// /progress, and liveness probes on /healthz and /livez.
//
// The server is optional. Batch runs driven by cron or CI usually leave
// it disabled; long builds on large libraries enable it so progress can
// be watched and scraped.
package status
