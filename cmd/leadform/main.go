// Command leadform fills in and submits the contact or waitlist form from
// the command line, running the same sanitize → validate → submit pipeline
// as the website.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	_ = godotenv.Load()

	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
