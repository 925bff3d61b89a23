package main

import "github.com/guzus/teleterm/cmd"

func main() {
	cmd.Execute()
}
