// Package model defines the domain types shared by the tarkov-build CLI:
// image references, build requests and results, the run hint printed after
// a build, and local image listings.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
