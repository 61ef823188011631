package main

import "github.com/jjenkins/parlamentar/cmd"

func main() {
	cmd.Execute()
}
