// Package application provides application initialization and dependency wiring.
// It runs the WordPress configuration pass once and builds the handlers,
// router and HTTP server that expose the result, keeping the main package
// focused on CLI parsing and orchestration.
package application
