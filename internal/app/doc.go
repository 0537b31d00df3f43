// Package app wires the parameter binding engine into a runnable
// application: it registers the compiled-in modules, loads manifests, builds
// the parameter catalog and connects the navigator, the binder, the HTTP
// location endpoint and the socket.io bridge. It is decoupled from any
// specific entrypoint like a CLI.
//
// The navigator and binder are single-threaded. Every entry point that
// touches them (CLI, HTTP handlers, bridge callbacks) goes through the App's
// UI lock.
package app
