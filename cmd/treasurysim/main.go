package main

import "github.com/rustyeddy/treasurysim/internal/cli"

func main() {
	cli.Execute()
}
