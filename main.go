package main

import "github.com/structflat/structflat/cmd"

func main() {
	cmd.Execute()
}
