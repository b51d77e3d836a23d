package main

import (
	"os"

	"github.com/binduai/bindu-go/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
