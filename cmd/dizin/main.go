// Package main provides the entry point for the dizin schema CLI.
package main

import (
	"os"

	"github.com/KilimcininKorOglu/dizin/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
