package main

import "github.com/g2dcsp/solver/cmd/solver/cmd"

func main() {
	cmd.Execute()
}
