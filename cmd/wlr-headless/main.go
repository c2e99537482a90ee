// Command wlr-headless runs a headless compositor configured from
// wlr.toml.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
