package main

import "partyline/internal/cli"

func main() {
	cli.Execute()
}
