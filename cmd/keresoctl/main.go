// Package main provides the entry point for the keresoctl operator CLI.
package main

import (
	"os"

	"github.com/kailas-cloud/kereso/cmd/keresoctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
