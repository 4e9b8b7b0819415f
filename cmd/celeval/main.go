// Command celeval is a small CLI around the cel package: it parses,
// type-checks, and evaluates a single expression against variables
// supplied on the command line.
package main

import (
	"os"

	"github.com/taichimaeda/cel-ts-sub000/cmd/celeval/internal/cli"
)

func main() {
	if err := cli.New().Execute(); err != nil {
		os.Exit(1)
	}
}
