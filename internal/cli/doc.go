// Package cli turns command-line arguments into an app.Config. It validates
// flag values and reports usage problems as ExitError with exit code 2.
package cli
