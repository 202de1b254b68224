// Package api implements the HTTP handlers of the flipdeck server.
//
// Handlers decode and validate requests, call the service layer and map its
// errors to status codes with HandleAPIError. Every error response carries
// the request trace ID set by middleware.NewTraceMiddleware.
package api
