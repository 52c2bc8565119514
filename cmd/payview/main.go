// Package main is the entry point for the payview CLI.
package main

import (
	"os"

	"github.com/shunichi-ikebuchi/payview/cmd/payview/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
