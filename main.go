package main

import "github.com/KaramelBytes/storemetrics/cmd"

func main() {
	cmd.Execute()
}
