// Command play is the interactive human-vs-bot player (spec.md 6): not
// part of the core solver, it loads a solved strategy and lets a human
// play against it, sampling the bot's moves via pkg/randsrc.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	sub := os.Args[1]
	os.Args = append([]string{os.Args[0]}, os.Args[2:]...)

	var err error
	switch sub {
	case "subgame":
		err = runSubgame()
	case "multiround":
		err = runMultiround()
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: play <subgame|multiround> [flags]\n")
}
