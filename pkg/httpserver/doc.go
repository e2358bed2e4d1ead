// Package httpserver runs the HTTP listener with graceful shutdown and
// serves health probes for the process's dependencies.
package httpserver
