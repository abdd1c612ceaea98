// Package api implements the HTTP surface: URL submission, on-demand
// content fetches, health checks, and the websocket endpoint that streams
// per-request status updates. Handlers stay thin; triage and pipeline
// logic live in the service and worker packages.
package api
