// Command minilisp is the command-line entry point for the interpreter.
package main

import (
	"fmt"
	"os"

	"github.com/kjhall/minilisp/cmd/minilisp/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
