// Package middleware provides HTTP middleware for the photo manager API.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics with low-cardinality path labels
//   - Response compression (gzip) for the JSON surface
package middleware
