package main

import "bondfeed/internal/cli"

func main() {
	cli.Execute()
}
