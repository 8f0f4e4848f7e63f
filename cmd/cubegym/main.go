// cubegym - CLI application for running and analyzing Rubik's cube episodes.
package main

import (
	"github.com/cubelab/cubegym/internal/cli"
)

func main() {
	cli.Execute()
}
