// Package main provides the entry point for the centrefind CLI.
package main

import (
	"os"

	"centrefind/cmd/centrefind/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
