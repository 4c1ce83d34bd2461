// Package constants centralizes configuration defaults shared across the CLI.
//
// These are defaults only. Commands copy them into a CLIConfig value that
// configuration files and environment variables may override, and pass that
// value into each operation.
package constants
