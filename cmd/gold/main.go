package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/termfx/gold/core"
)

// main loads .env, runs the root command and maps its outcome to the exit status:
// 0 when nothing is left to report, 1 otherwise.
func main() {
	_ = godotenv.Load()

	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, core.ErrIssuesFound) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
