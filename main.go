package main

import (
	"os"

	"github.com/TFMV/graphlens/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
