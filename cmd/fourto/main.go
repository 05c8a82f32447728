package main

import (
	"os"

	"github.com/fourtogenic/fourto/cmd/fourto/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
