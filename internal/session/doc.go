// Package session holds the per-client state of the dashboard.
//
// This package is internal to exodash. Each connected client owns exactly
// one [Session] and with it one view.State; sessions never share mutable
// state. A parameter change is a discrete message: [Session.Change] merges
// it into the state and renders the result synchronously.
//
// The main components are:
//
//   - [Session]: one client's view state plus its render loop
//   - [Update]: the message sent back to the client after every change
//   - [Registry]: the set of live sessions, used to cap concurrent clients
package session
