// Package cmd implements the command-line interface of dPersist. It provides
// commands to inspect and manage persisted slices and a demo application.
//
// The package is organized into several subpackages:
//
//   - kv: Raw storage operations (get, set, del)
//   - slice: Commands working on persisted slices (inspect, purge, keys)
//   - demo: A small persisted application showing lazy restore and write coalescing
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set through the environment (prefix DPERSIST_, e.g.
// DPERSIST_STORAGE=sqlite) or a .env file.
//
// See dpersist -help for a list of all commands.
package cmd
