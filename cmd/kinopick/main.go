package main

import (
	"errors"
	"fmt"
	"os"
)

// Version is set at build time via -ldflags
var Version = "dev"

// errCancelled ends the process with a failing status and no message
var errCancelled = errors.New("cancelled")

func main() {
	root := rootCmd()
	root.AddCommand(albumsCmd())
	root.AddCommand(configCmd())

	if err := root.Execute(); err != nil {
		if !errors.Is(err, errCancelled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
