// Package rabbitmq implements the broker client: connection lifecycle with
// bounded startup retries, idempotent queue declaration, persistent
// publishing, and a consume loop that translates handler decisions into
// transport acknowledgements. No other package touches AMQP types.
package rabbitmq
