package main

import (
	"os"

	"github.com/solatis/prodrules/cmd/prodrules/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
