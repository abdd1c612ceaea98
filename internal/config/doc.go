// Package config defines the application configuration structure and
// loading. Settings are grouped by concern (server, broker, cache,
// pipeline policy, LLM backends), loaded through viper with SIFT_-prefixed
// environment overrides, and validated with struct tags before use.
package config
