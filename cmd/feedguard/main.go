package main

import (
	"os"

	"github.com/mx-space/feedguard/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
