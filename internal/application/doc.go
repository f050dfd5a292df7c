// Package application wires the resolved settings into a running site. It
// builds the shared state, the page handlers, the router with its asset
// mounts and the HTTP server, leaving main to flag parsing and shutdown.
package application
