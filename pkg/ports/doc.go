// Package ports defines the driven-side interfaces of the engine: session
// persistence, the chat transport, dataset providers, view content, object
// storage and the notification queue.
//
// Adapters live under internal/adapters; the contract test suites in this
// package verify that every store implementation honours the same semantics.
package ports
