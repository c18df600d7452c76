package main

import "github.com/naka-gawa/streak-keeper/cmd"

func main() {
	cmd.Execute()
}
