// Package server exposes the live breathing session over a small local HTTP endpoint.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [MuxRouter] implementation uses gorilla/mux internally, which also answers 405 for
// registered paths requested with the wrong method.
//
// # State Endpoint
//
// [StateHandler] keeps the most recent [breath.State] published by a driver and serves it as JSON:
//
//	GET /state   current phase, countdown, cycle and run flags
//	GET /health  liveness plus whether a session is being published
//
// External renderers poll /state; the engine itself never pushes.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
