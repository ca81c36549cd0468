package main

import "label-scanner/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
