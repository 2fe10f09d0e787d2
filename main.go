package main

import "github.com/kiesman99/photokit/cmd"

func main() {
	cmd.Execute()
}
