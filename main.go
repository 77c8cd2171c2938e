package main

import "github.com/prwatch/prwatch/cmd"

func main() {
	cmd.Execute()
}
