package main

import "github.com/fakeyudi/snipt/cmd"

func main() {
	cmd.Execute()
}
