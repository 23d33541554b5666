// Package vasttrafik implements driven.TransitClient against the Västtrafik
// Planera Resa v4 REST API.
//
// Three endpoints are used, all relative to the configured data URL
// (https://ext-api.vasttrafik.se/pr/v4 by default):
//
//   - /locations/by-text resolves a stop name to a stop area gid
//   - /stop-areas/{gid}/departures lists the next departures
//   - /journeys plans trips between two stop areas
//
// Requests are authorised with the bearer token passed by the caller. Every
// non-2xx status, network failure or undecodable body is returned as an error
// matching domain.ErrTransport or domain.ErrMalformedResponse.
package vasttrafik
