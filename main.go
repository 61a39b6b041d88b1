package main

import "pbnj/cmd"

func main() {
	cmd.Execute()
}
