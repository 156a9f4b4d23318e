package main

import "github.com/doms3/chatty/cmd"

func main() {
	cmd.Execute()
}
