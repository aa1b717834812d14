// Package inttest enables writing of integration tests. An HTTP server is started with the same
// middleware the service runs with and a client ready to interact with it is returned. Every setup
// function ensures resources are cleaned up after the tests are finished.
package inttest
