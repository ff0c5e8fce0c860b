// Package cmd implements the command-line interface for the dCount distributed
// counter service. It provides a hierarchical command structure with operations
// for running the server and interacting with it as a client.
//
// The package is organized into several subpackages:
//
//   - counter: Commands for atomic counter operations (get, add, set, cas, etc.)
//   - serve: Commands for starting and configuring the dCount server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See dcount -help for a list of all commands.
package cmd
