// Package cmd provides the command-line interface implementation for fstn.
//
// This package contains all the subcommand implementations for the fstn CLI.
// It uses the Cobra library for command structure and Fang for styling.
//
// The package is organized into the following commands:
//   - root: Main command coordinator and entry point
//   - mount: FUSE mounting of the in-memory fstn filesystem
//   - login, whoami, delegate: token management against a Faasten gateway
//   - invoke, ping, ping-scheduler: gateway function invocation and probes
//   - fs: remote filesystem operations through the fsutil gate
//
// Each command is implemented as a separate file with its own constructor
// function that returns a *cobra.Command. Gateway commands resolve the
// server and user from flags, then environment, then the credentials file.
package cmd
