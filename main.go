package main

import "weebdex/cmd"

func main() {
	cmd.Execute()
}
