package main

import (
	"os"

	"github.com/proplens/scout/cmd/scout/commands"
)

// main is the entry point for the scout CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
