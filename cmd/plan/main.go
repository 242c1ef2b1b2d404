// Package main provides the entry point for the plan CLI.
package main

import (
	"os"

	"github.com/Greenjacket-nomad/personal-plan/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
