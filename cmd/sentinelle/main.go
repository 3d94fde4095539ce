// Package main provides the Sentinelle directory tree naming auditor.
package main

import (
	"os"

	"github.com/leapstack-labs/sentinelle/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
