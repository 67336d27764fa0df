package main

import "github.com/jmehdipour/pisa-dashboard/cmd"

func main() {
	cmd.Execute()
}
