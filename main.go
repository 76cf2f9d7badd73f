package main

import "velac/cmd"

func main() {
	cmd.Execute()
}
