// Package main is the entry point for the inspector CLI.
//
// Startup sequence:
//
// 1. Initialize logging
// 2. Load a .env file from the working directory, if any
// 3. Load or create the user configuration
// 4. Open the settings store on the configured backend
// 5. Run the TUI, or the requested subcommand
//
// Every store subscription the TUI takes is released after the program
// exits.
package main

import (
	"os"

	"inspector/internal/logging"
)

func main() {
	appLogger := logging.NewAppLogger()
	logging.SetDefault(appLogger)

	a := newApp(appLogger, os.Stdin, os.Stdout, os.Stderr)
	err := execute(a, os.Args[1:])
	appLogger.Close()
	if err != nil {
		os.Exit(1)
	}
}
