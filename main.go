package main

import "github.com/rotblauer/trackfilter/cmd"

func main() {
	cmd.Execute()
}
