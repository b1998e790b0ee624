package main

import "github.com/tkc/fignotes/internal/cli"

func main() {
	cli.Execute()
}
