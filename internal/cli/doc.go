// Package cli wires the st commands to cobra.
package cli
