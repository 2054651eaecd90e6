package main

import (
	"os"

	"github.com/rafaelnovaes22/cvsemfrescura-sub003/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
