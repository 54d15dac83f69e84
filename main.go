// Package main is the entry point for the nmfconv call-recording converter.
package main

import (
	"fmt"
	"os"

	"github.com/voicetap/nmfconv/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
