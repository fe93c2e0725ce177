package main

import "github.com/josephlewis42/tarsh/cmd"

func main() {
	cmd.Execute()
}
