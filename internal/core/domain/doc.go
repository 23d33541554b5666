// Package domain defines the core business entities for tramtid.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - AccessToken: A client-credentials bearer token and its expiry
//   - StopArea: A stop name resolved to the transit API's identifier
//   - Departure: One upcoming departure at a stop area
//   - Countdown: Time remaining until a departure, computed by CountdownTo
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
