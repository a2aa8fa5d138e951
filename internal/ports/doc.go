// Package ports defines interfaces between layers in the hexagonal architecture.
// Inbound ports (Dispatcher) are implemented by the application runtime and
// called by transport adapters. Outbound ports (Repository, Store,
// HealthChecker) are implemented by persistence adapters and called by
// application handlers.
package ports
