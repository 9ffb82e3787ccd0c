package main

import "gopontos/cmd"

func main() {
	cmd.Execute()
}
