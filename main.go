package main

import (
	"os"

	"github.com/dronenav/humanpred/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
