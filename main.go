package main

import "github.com/harmonomino/hxp/cmd"

func main() {
	cmd.Execute()
}
