// Package repository defines error values that are reused across the
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting error strings. Malformed input is reported through
// ErrInvalidArgument instead of being silently ignored, so callers
// must handle the failure path explicitly.
package repository

import "errors"

// ErrInvalidArgument is returned when a caller passes a missing or
// empty identifier or a nil payload. It is raised before any store
// interaction takes place. Handlers should translate this into an
// HTTP 400 response.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrRestaurantNotFound is returned when the requested restaurant
// identifier does not resolve to a stored record. Handlers should
// translate this into an HTTP 404 response.
var ErrRestaurantNotFound = errors.New("restaurant not found")
