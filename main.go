package main

import "github.com/ficap/dhwebapi/cmd"

func main() {
	cmd.Execute()
}
