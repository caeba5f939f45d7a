package main

import (
	"os"

	"github.com/nutrilens/nutrilens/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
