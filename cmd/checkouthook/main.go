package main

import (
	"os"

	"github.com/bbcraft/checkout-hook/internal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
