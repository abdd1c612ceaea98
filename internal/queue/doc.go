// Package queue defines the wire contract between pipeline stages: the
// queue names, the JSON message types that travel through them, the ack
// decision a message handler returns, and a publisher that serializes
// messages onto the broker. Anything that changes here changes the broker
// protocol, so additions must stay backward-compatible.
package queue
