// Package server provides the HTTP server for the exodash dashboard.
//
// This package is internal to exodash and handles all HTTP concerns:
//
//   - Dashboard serving: Serves the embedded HTML/CSS/JS dashboard at "/"
//   - View API: stateless JSON rendering of a view at "/api/view"
//   - Sessions: a WebSocket channel per client at "/ws"; each client message
//     is a view change, each reply the re-rendered view
//
// The server supports graceful shutdown via context cancellation, bounded by
// Config.ShutdownTimeout (5 seconds by default). Open sessions are closed
// when the context is cancelled, and Server.Done reports when shutdown has
// finished.
//
// Users of the exodash library should not need to interact with this
// package directly. The server is started by [exodash.Dashboard.Start].
package server
