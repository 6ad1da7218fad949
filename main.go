package main

import "github.com/mabhi256/tokgraph/cmd"

func main() {
	cmd.Execute()
}
