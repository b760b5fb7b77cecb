package main

import (
	"os"

	"github.com/gridmate/gridmate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
