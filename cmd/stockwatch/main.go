// Package main is the entry point for stockwatch.
package main

import (
	"os"

	"stockwatch/cmd/stockwatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
