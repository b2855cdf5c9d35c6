// sortdebug normalizes structural-debug output so that two dumps of the
// same data compare equal regardless of map and set iteration order.
//
// Usage:
//
//	sortdebug [flags] [paths...]       Print normalized inputs (stdin when no paths)
//	sortdebug -i [paths...]            Rewrite debug-text files in place
//	sortdebug --check [paths...]       Exit 1 when an input is not normalized
//	sortdebug --diff LEFT RIGHT        Print a line diff of two normalized inputs
//	sortdebug --init [--config FILE]   Write a default .sortdebug.hcl
//
// Files ending in .json and .hcl are decoded as data; everything else is
// parsed as structural-debug text.
package main

import (
	"context"
	"log"
	"os"

	"github.com/tjun/sortdebug/internal/commands"
)

func main() {
	log.SetFlags(0)
	if err := commands.NewCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
