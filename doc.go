// Package main provides the fstn command-line interface.
//
// fstn is a client for the Faasten serverless platform. It talks to a remote
// Faasten gateway over HTTP and drives the gateway-side filesystem through
// the fsutil gate.
//
// The main binary supports multiple subcommands:
//   - login: Save an API token for a gateway
//   - whoami: Show the identity behind the stored token
//   - delegate: Mint a token for a sub-privilege
//   - invoke: Invoke a gateway function with a payload
//   - ping, ping-scheduler: Measure gateway round trips
//   - fs: Operate on the gateway-side filesystem
//   - mount: Mount a local in-memory scratch filesystem over FUSE
package main
