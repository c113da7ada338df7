// Package cli builds the invocation of the agent executable: command-line
// arguments, subprocess environment, and discovery of the binary itself.
package cli
