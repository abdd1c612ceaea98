// Package analysis defines the capability interfaces for the two external
// services the pipeline calls into: content analysis (URL to summary,
// keywords, sentiment) and evaluation (result to scores). The Service
// implements both over a minimal Completer backend, owning the prompts
// and the lenient response parsing; packages under internal/platform
// adapt the individual LLM SDKs to Completer.
package analysis
