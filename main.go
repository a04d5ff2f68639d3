package main

import (
	"os"

	"github.com/textlens/textlens/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
