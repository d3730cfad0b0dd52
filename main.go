// degrees-go - degrees of separation analytics for undirected graphs.
//
// degrees-go reads an edge list, builds an adjacency structure and runs a
// breadth-first search from every node to report connectivity, average path
// length, the separation distribution and separation statistics.
package main

import (
	"fmt"
	"os"

	"github.com/Benny93/degrees-go/cmd"
)

func main() {
	cli := cmd.NewCLI()

	if err := cli.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
