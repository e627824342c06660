package main

import (
	"os"

	"github.com/moolen/eventmodel/cmd/eventmodel/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
