// Package shared holds code used across packages that belongs to no single layer.
//
// # Structure
//
//   - testutil: slog capture handler and campaign fixtures for tests
//
// Only test helpers and domain-neutral utilities belong here. Business
// logic lives in internal/analytics and the service layer.
package shared
