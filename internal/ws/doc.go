// Package ws delivers live status updates to websocket subscribers. The
// Registry tracks connections per request and fans events out with
// prune-on-failure; the Relay consumes the status queue and feeds the
// Registry, decoupled from the pipeline consumers so slow clients never
// stall processing.
package ws
