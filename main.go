package main

import "instafeed/cmd"

func main() {
	cmd.Run()
}
