// Package port checks host port availability for the `docker run` hint.
//
// The hint printed after a build publishes a fixed host port (8501 by
// default). The Scanner lets the CLI warn, on stderr, when that port is
// already taken and suggest the next free one.
package port
