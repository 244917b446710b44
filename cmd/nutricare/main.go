package main

import "github.com/nutricare/nutrikit/cmd/nutricare/cmd"

func main() {
	cmd.Execute()
}
