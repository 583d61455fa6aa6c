package main

import "github.com/kozaktomas/trip-press/cmd"

func main() {
	cmd.Execute()
}
