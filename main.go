package main

import "github.com/khanhnv2901/cybertools/cmd"

var execCmd = cmd.Execute

func main() {
	execCmd()
}
