package main

import (
	"os"

	"github.com/settleup-dev/settleup/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
