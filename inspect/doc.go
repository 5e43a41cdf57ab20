// Package inspect serves read-only container introspection over HTTP.
//
// The handler is a gin engine exposing:
//
//	GET /health                                   aggregated container health
//	GET /containers                               every container with its summary
//	GET /containers/:container                    one container and its registrations
//	GET /containers/:container/components/:name   one registration, resolving aliases
//
// A container is addressed by name or ID. Nothing in this package constructs
// components; it only reads state.
//
// Usage:
//
//	h := inspect.NewHandler("orders", root, child)
//	srv := inspect.NewServer(":8089", h, log)
//	registry.Register(srv)
package inspect
