// seats-report runs the Copilot seat report from a terminal instead of a
// workflow. It talks to the same billing API as the action and supports the
// same output formats.
//
// Usage:
//
//	seats-report generate --org myorg
//	seats-report generate --org myorg --format csv --out ./report
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
