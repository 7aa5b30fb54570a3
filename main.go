// Package main is the entry point for the pcapedit capture file editor.
package main

import (
	"os"

	"github.com/netkestrel/pcapedit/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
