package main

import (
	"os"

	"github.com/cinelog/cinelog/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
