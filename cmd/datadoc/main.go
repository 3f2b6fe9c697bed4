package main

import (
	"os"

	"github.com/nordstat/datadoc/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
