package main

import (
	"os"

	"github.com/msto63/yarnscan/cmd/yarnscan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
