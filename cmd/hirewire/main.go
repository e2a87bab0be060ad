// Package main is the entry point for the hirewire CLI/TUI.
package main

import (
	"os"

	"github.com/hirewire/hirewire/internal/cli"
)

func main() {
	err := cli.Execute()
	cli.Close()
	if err != nil {
		os.Exit(1)
	}
}
