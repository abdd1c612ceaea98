// Package redis implements the result cache on a Redis key-value store.
// Each URL maps to a single JSON-encoded processed result under a
// url_result: key, written with the upsert-if-better rule so cached quality
// never regresses.
package redis
