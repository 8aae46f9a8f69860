// Package dashboard provides the embedded web UI assets for exodash.
//
// This package uses Go's embed directive to include the dashboard HTML, CSS,
// and JavaScript at compile time. This enables single-binary deployment
// without external asset files.
//
// The embedded assets are served by the server package at the root path ("/").
// Users of the exodash library should not need to interact with this
// package directly.
package dashboard

import "embed"

// Assets is an embedded filesystem containing the dashboard web UI.
//
// The filesystem structure is:
//
//	assets/
//	  index.html    - Dashboard page with inline CSS and JavaScript
//
// The page opens a websocket session at /ws and falls back to the stateless
// /api/view endpoint while the socket is down.
//
//go:embed assets/*
var Assets embed.FS
