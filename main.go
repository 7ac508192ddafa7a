package main

import (
	"os"

	"github.com/refinelab/feedplan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
