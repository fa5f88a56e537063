// Package main is the entry point for the freight CLI.
package main

import (
	"os"

	"freight-rate/cmd/freight/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
