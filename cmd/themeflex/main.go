// Package main is the entry point for the themeflex application.
package main

import (
	"os"

	"github.com/jmylchreest/themeflex/cmd/themeflex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
