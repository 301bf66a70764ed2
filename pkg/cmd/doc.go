// Package cmd implements the schemaport CLI commands.
//
// Commands are plain constructors wired together in Run; every service they
// use (clients, planner, executor) is built explicitly per invocation so
// nothing leaks between runs.
package cmd
