package main

import (
	"os"

	"github.com/Brxzee/scalping-bot/internal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}