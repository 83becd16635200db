package main

import "github.com/grailbio/ranges/cmd/bio-ranges/cmd"

func main() {
	cmd.Run()
}
