// Package main is the entry point for the stockbook CLI.
package main

import (
	"os"

	"github.com/mamadbah2/stockbook/cmd/stockbook/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
