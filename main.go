package main

import "github.com/jacobreesgit/music-tracking/cmd"

func main() {
	cmd.Execute()
}
