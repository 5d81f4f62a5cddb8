package main

import "ottcal/cmd"

func main() {
	cmd.Execute()
}
