// Package main is the entry point for the promptmark CLI.
package main

import (
	"os"

	"github.com/jmylchreest/promptmark/cmd/promptmark/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
