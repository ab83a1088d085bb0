package main

import (
	"os"

	"stockpilot/cmd/stockpilot/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
