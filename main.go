package main

import "freight-quoter/internal/cli"

func main() {
	cli.Execute()
}
