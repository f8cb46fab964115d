package main

import "github.com/bimforge/bimforge/cmd/bimforge/cmd"

func main() {
	cmd.Execute()
}
