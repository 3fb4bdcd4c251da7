package main

import "github.com/quillfeed/quill/internal/cli"

func main() {
	cli.Execute()
}
