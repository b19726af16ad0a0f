// Command routefold rewrites route module exports into page-server, server
// and client buckets.
package main

import (
	"os"

	"github.com/leapstack-labs/routefold/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
