// Package main is the entry point for create-computelabs-app.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/computelabs/create-computelabs-app/internal/cmd"
	oerrors "github.com/computelabs/create-computelabs-app/internal/errors"
)

func main() {
	rootCmd := cmd.NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		// Check if the error contains an ExitError with a specific code
		var exitErr *oerrors.ExitError
		if errors.As(err, &exitErr) {
			// Only print if the command layer hasn't already printed it
			if !exitErr.Printed {
				fmt.Fprintln(os.Stderr, err)
			}
			os.Exit(exitErr.Code)
		}
		// Non-ExitError: flag parsing and other cobra errors
		fmt.Fprintln(os.Stderr, err)
		os.Exit(oerrors.ExitCodeFromError(err))
	}
}
