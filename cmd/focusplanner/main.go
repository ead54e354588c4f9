package main

import "github.com/andrescamacho/focusplanner/internal/adapters/cli"

func main() {
	cli.Execute()
}
