package main

import (
	"os"

	"github.com/safespend-dev/safespend/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
