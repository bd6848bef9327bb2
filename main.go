package main

import "github.com/gpstats/gpstats-go/cmd"

func main() {
	cmd.Execute()
}
